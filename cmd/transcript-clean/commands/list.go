package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/output"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleanrate"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner/processors"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/llm"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/transcript"
)

// listing is a list result: structured formats get Items, text output a
// table.
type listing struct {
	Items  any `json:"items" yaml:"items"`
	header []string
	rows   [][]string
}

func (l *listing) PlainText() string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(l.header, "\t"))
	for _, r := range l.rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	_ = tw.Flush()
	return b.String()
}

func (l *listing) MarshalJSON() ([]byte, error) { return json.Marshal(l.Items) }

func (l *listing) MarshalYAML() (any, error) { return l.Items, nil }

func writeListing(cmd *cobra.Command, l *listing) error {
	w, closeOut, err := openOutput(cmd)
	if err != nil {
		logError("%v", err)
		return err
	}
	defer closeOut()
	if err := w.Write(l); err != nil {
		return err
	}
	return w.Flush()
}

func listCommand(use, short string, run func(*cobra.Command) (*listing, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := run(cmd)
			if err != nil {
				return err
			}
			return writeListing(cmd, l)
		},
	}
	outputFlags(cmd, output.FormatText)
	return cmd
}

var profilesCmd = listCommand("profiles", "List cleaning profiles", func(cmd *cobra.Command) (*listing, error) {
	cfg, err := loadConfig(cmd, map[string]string{"profiles_file": "profiles-file"})
	if err != nil {
		return nil, err
	}
	c, err := cfg.NewCleaner()
	if err != nil {
		logError("%v", err)
		return nil, err
	}
	infos := c.Profiles()
	l := &listing{Items: infos, header: []string{"NAME", "TITLE", "PROCESSORS"}}
	for _, p := range infos {
		name := p.Name
		if p.Default {
			name += " *"
		}
		l.rows = append(l.rows, []string{name, p.Title, strings.Join(p.Processors, ",")})
	}
	return l, nil
})

var processorsCmd = listCommand("processors", "List processors", func(cmd *cobra.Command) (*listing, error) {
	if _, err := loadConfig(cmd, nil); err != nil {
		return nil, err
	}
	infos := processors.Available()
	defaults := make(map[string]bool)
	for _, n := range transcript.DefaultProcessors {
		defaults[n] = true
	}
	l := &listing{Items: infos, header: []string{"NAME", "DEFAULT", "DESCRIPTION"}}
	for _, p := range infos {
		def := ""
		if defaults[p.Name] {
			def = "yes"
		}
		l.rows = append(l.rows, []string{p.Name, def, p.Description})
	}
	return l, nil
})

var rulesCmd = listCommand("rules", "List clean rate rules", func(cmd *cobra.Command) (*listing, error) {
	if _, err := loadConfig(cmd, nil); err != nil {
		return nil, err
	}
	infos := cleanrate.NewCalculator().Rules()
	l := &listing{Items: infos, header: []string{"RULE", "MAX", "DESCRIPTION"}}
	for _, r := range infos {
		l.rows = append(l.rows, []string{r.Name, fmt.Sprint(r.MaxPenalty), r.Description})
	}
	return l, nil
})

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "LLM provider information",
}

var llmProvidersCmd = listCommand("providers", "List LLM providers", func(cmd *cobra.Command) (*listing, error) {
	if _, err := loadConfig(cmd, nil); err != nil {
		return nil, err
	}
	detected, _ := llm.DetectProvider()
	infos := llm.Providers()
	l := &listing{Items: infos, header: []string{"NAME", "DEFAULT MODEL", "KEY", "DESCRIPTION"}}
	for _, p := range infos {
		name := p.Name
		if p.Name == detected {
			name += " *"
		}
		key := "-"
		if p.RequiresKey {
			key = p.EnvKey
		}
		l.rows = append(l.rows, []string{name, p.DefaultModel, key, p.Description})
	}
	return l, nil
})

var llmPromptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the prompt template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd, map[string]string{"llm.prompt_file": "prompt-file"})
		if err != nil {
			return err
		}
		prompt, err := cfg.Prompt()
		if err != nil {
			logError("%v", err)
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), prompt)
		return err
	},
}

func init() {
	profilesCmd.Flags().String("profiles-file", "", "YAML file with additional profiles")
	llmPromptCmd.Flags().String("prompt-file", "", "prompt template file")

	llmCmd.AddCommand(llmProvidersCmd, llmPromptCmd)
	rootCmd.AddCommand(profilesCmd, processorsCmd, rulesCmd, llmCmd)
}
