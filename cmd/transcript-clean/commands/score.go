package commands

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/output"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleanrate"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/transcript"
)

// scoreOutput is the clean rate of one input.
type scoreOutput struct {
	Source           string `json:"source" yaml:"source"`
	Profile          string `json:"profile,omitempty" yaml:"profile,omitempty"`
	cleanrate.Result `yaml:",inline"`
}

func (s *scoreOutput) PlainText() string {
	return s.Source + "\t" + strconv.Itoa(s.Score) + "\t" + s.Category + "\t" + s.Description
}

var scoreCmd = &cobra.Command{
	Use:   "score [file|url|-]...",
	Short: "Report the clean rate without writing cleaned text",
	Long: `Clean each input in memory and report its clean rate: a 0-100 score
of how safe the removals were, with the penalties that lowered it.

Examples:
  transcript-clean score *.docx
  transcript-clean score shiur.docx -P titles_only -f yaml`,
	RunE: runScore,
}

var scoreBindings = map[string]string{
	"profile":        "profile",
	"processors":     "processors",
	"profiles_file":  "profiles-file",
	"max_input_size": "max-input-size",
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	inputFlags(scoreCmd)
	outputFlags(scoreCmd, output.FormatText)

	flags := scoreCmd.Flags()
	flags.StringP("profile", "P", "", "cleaning profile (see 'profiles')")
	flags.StringSlice("processors", nil, "processors to run instead of a profile")
	flags.String("profiles-file", "", "YAML file with additional profiles")
	flags.String("max-input-size", "", "max input size (e.g. 20MB)")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, scoreBindings)
	if err != nil {
		return err
	}
	c, err := cfg.NewCleaner()
	if err != nil {
		logError("%v", err)
		return err
	}

	w, closeOut, err := openOutput(cmd)
	if err != nil {
		logError("%v", err)
		return err
	}
	defer closeOut()

	ctx := context.Background()
	opts := transcript.Options{Profile: cfg.Profile, Processors: cfg.Processors}
	for _, src := range inputs(args) {
		doc, err := readInput(ctx, cmd, cfg, src)
		if err != nil {
			logError("%v", err)
			return err
		}
		res, err := c.Process(doc, opts)
		if err != nil {
			logError("%s: %v", src, err)
			return err
		}
		if err := w.Write(&scoreOutput{Source: src, Profile: res.Profile, Result: res.CleanRate}); err != nil {
			return err
		}
	}
	return w.Flush()
}
