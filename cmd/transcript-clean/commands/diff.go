package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/output"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/diff"
)

// diffOutput is the structured diff result.
type diffOutput struct {
	Original string         `json:"original" yaml:"original"`
	Cleaned  string         `json:"cleaned" yaml:"cleaned"`
	Summary  diff.Summary   `json:"summary" yaml:"summary"`
	Diff     *diff.LineDiff `json:"diff" yaml:"diff"`
	html     bool
}

// PlainText renders the unified diff, or HTML with --html.
func (d *diffOutput) PlainText() string {
	if d.html {
		return d.Diff.HTML()
	}
	return d.Diff.UnifiedDiff
}

var diffCmd = &cobra.Command{
	Use:   "diff <original> <cleaned>",
	Short: "Show what changed between two versions of a transcript",
	Long: `Compare two transcripts line by line. Modified lines carry a
word-level diff in structured output.

Examples:
  transcript-clean diff shiur.docx shiur.txt
  transcript-clean diff original.txt cleaned.txt --html -o diff.html
  transcript-clean diff original.txt cleaned.txt -f json`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
	inputFlags(diffCmd)
	outputFlags(diffCmd, output.FormatText)
	diffCmd.Flags().Bool("html", false, "render text output as HTML")
	diffCmd.Flags().Bool("summary", false, "print the similarity summary to stderr")
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	ctx := context.Background()

	texts := make([]string, 2)
	for i, src := range args {
		doc, err := readInput(ctx, cmd, cfg, src)
		if err != nil {
			logError("%v", err)
			return err
		}
		texts[i] = doc.Text()
	}

	d, err := diff.Lines(texts[0], texts[1])
	if err != nil {
		logError("%v", err)
		return err
	}
	html, _ := cmd.Flags().GetBool("html")
	out := &diffOutput{
		Original: args[0],
		Cleaned:  args[1],
		Summary:  diff.Summarize(texts[0], texts[1]),
		Diff:     d,
		html:     html,
	}

	if show, _ := cmd.Flags().GetBool("summary"); show {
		s := out.Summary
		logInfo("lines %d -> %d, words %d -> %d, similarity %.1f%%",
			s.OriginalLines, s.CleanedLines, s.OriginalWords, s.CleanedWords, s.SimilarityRatio)
		logInfo("%d removed, %d added, %d modified, %d unchanged",
			d.Stats.LinesRemoved, d.Stats.LinesAdded, d.Stats.LinesModified, d.Stats.LinesUnchanged)
	}

	w, closeOut, err := openOutput(cmd)
	if err != nil {
		logError("%v", err)
		return err
	}
	defer closeOut()
	if err := w.Write(out); err != nil {
		return err
	}
	return w.Flush()
}
