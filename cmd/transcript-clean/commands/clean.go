package commands

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/config"
	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/logger"
	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/output"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleanrate"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/llm"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/transcript"
)

// cleanOutput is one cleaned input.
type cleanOutput struct {
	Source            string `json:"source" yaml:"source"`
	transcript.Result `yaml:",inline"`
}

// llmOutput is one input cleaned by an LLM.
type llmOutput struct {
	Source       string             `json:"source" yaml:"source"`
	OriginalText string             `json:"original_text" yaml:"original_text"`
	llm.Result   `yaml:",inline"`
	Statistics   cleaner.Statistics `json:"statistics" yaml:"statistics"`
	CleanRate    cleanrate.Result   `json:"clean_rate" yaml:"clean_rate"`
}

var cleanCmd = &cobra.Command{
	Use:   "clean [file|url|-]...",
	Short: "Clean transcripts",
	Long: `Clean one or more transcripts and write the result.

Inputs are .docx, .html, .json (paragraph metadata) or plain text files,
http(s) URLs, or "-" for stdin. With no inputs stdin is read.

Text output is the cleaned transcript. Structured formats (json, jsonl,
yaml) include the removed items, statistics and clean rate.

Examples:
  transcript-clean clean shiur.docx -o shiur.txt
  transcript-clean clean shiur.docx -P titles_only -f json
  cat notes.txt | transcript-clean clean --processors seif_marker,whitespace
  transcript-clean clean shiur.docx --llm -p anthropic`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	flags := cleanCmd.Flags()
	inputFlags(cleanCmd)
	outputFlags(cleanCmd, output.FormatText)

	flags.StringP("profile", "P", "", "cleaning profile (see 'profiles')")
	flags.StringSlice("processors", nil, "processors to run instead of a profile (see 'processors')")
	flags.String("profiles-file", "", "YAML file with additional profiles")
	flags.Int("min-words", 0, "paragraphs with fewer words count as titles")
	flags.Float64("size-threshold", 0, "font size multiple above average that marks a title")
	flags.Bool("remove-all", false, "remove every parenthetical note, not just non-speech ones")
	flags.String("max-input-size", "", "max input size (e.g. 20MB)")
	flags.Bool("stats", false, "print statistics and clean rate to stderr")

	flags.Bool("llm", false, "clean with an LLM instead of the rule-based processors")
	flags.StringP("provider", "p", "", "LLM provider: anthropic, openai, openrouter, groq, google, ollama (auto-detects from env vars)")
	flags.StringP("model", "m", "", "model name (provider-specific)")
	flags.StringP("api-key", "k", "", "API key (or use env var)")
	flags.String("base-url", "", "custom API base URL")
	flags.String("prompt-file", "", "prompt template file; {document_text} is replaced by the transcript")
}

// cleanBindings maps clean flags to config keys. Flags are bound when the
// command runs since several commands share keys.
var cleanBindings = map[string]string{
	"profile":         "profile",
	"processors":      "processors",
	"profiles_file":   "profiles-file",
	"max_input_size":  "max-input-size",
	"min_words":       "min-words",
	"size_threshold":  "size-threshold",
	"remove_all":      "remove-all",
	"llm.provider":    "provider",
	"llm.model":       "model",
	"llm.api_key":     "api-key",
	"llm.base_url":    "base-url",
	"llm.prompt_file": "prompt-file",
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, cleanBindings)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	w, closeOut, err := openOutput(cmd)
	if err != nil {
		logError("%v", err)
		return err
	}
	defer closeOut()

	useLLM, _ := cmd.Flags().GetBool("llm")
	showStats, _ := cmd.Flags().GetBool("stats")

	if useLLM {
		return cleanWithLLM(ctx, cmd, cfg, args, w, showStats)
	}

	c, err := cfg.NewCleaner()
	if err != nil {
		logError("%v", err)
		return err
	}
	opts := transcript.Options{Profile: cfg.Profile, Processors: cfg.Processors}
	logger.Debug("clean command starting", "profile", opts.Profile, "processors", opts.Processors)

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
		if showStats {
			printStats(src, res.Statistics, res.CleanRate)
		}
		if err := w.Write(&cleanOutput{Source: src, Result: *res}); err != nil {
			return err
		}
	}
	return w.Flush()
}

func cleanWithLLM(ctx context.Context, cmd *cobra.Command, cfg *config.Config, args []string, w output.Writer, showStats bool) error {
	provider, err := cfg.NewProvider()
	if err != nil {
		logError("%v", err)
		return err
	}
	prompt, err := cfg.Prompt()
	if err != nil {
		logError("%v", err)
		return err
	}
	logger.Debug("llm clean starting", "provider", provider.Name(), "model", provider.Model())

	for _, src := range inputs(args) {
		doc, err := readInput(ctx, cmd, cfg, src)
		if err != nil {
			logError("%v", err)
			return err
		}
		original := doc.Text()
		logInfo("Cleaning %s with %s/%s...", src, provider.Name(), provider.Model())
		res, err := llm.Clean(ctx, provider, original, prompt)
		if err != nil {
			logError("%s: %v", src, err)
			return err
		}

		out := &llmOutput{
			Source:       src,
			OriginalText: original,
			Result:       *res,
			Statistics:   cleaner.ComputeStatistics(original, res.CleanedText),
			CleanRate:    cleanrate.LLMProcessed(),
		}
		if showStats {
			printStats(src, out.Statistics, out.CleanRate)
			logInfo("  tokens: %s in, %s out, %s",
				humanize.Comma(int64(res.Usage.InputTokens)),
				humanize.Comma(int64(res.Usage.OutputTokens)),
				res.Duration.Round(time.Millisecond))
		}
		if err := w.Write(out); err != nil {
			return err
		}
	}
	return w.Flush()
}

func printStats(src string, s cleaner.Statistics, rate cleanrate.Result) {
	logInfo("%s: %s -> %s words (%s removed, %.1f%% of characters)",
		src,
		humanize.Comma(int64(s.OriginalWords)),
		humanize.Comma(int64(s.CleanedWords)),
		humanize.Comma(int64(s.RemovedWords)),
		s.ReductionPercentage)
	logInfo("  clean rate: %d (%s) %s", rate.Score, rate.Category, rate.Description)
	for _, p := range rate.Penalties {
		logInfo("    -%d %s: %s", p.Penalty, p.Rule, strings.TrimSpace(p.TextPreview))
	}
}
