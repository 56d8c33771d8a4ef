// Package diff compares original and cleaned transcript text line by line,
// with a word-level pass inside modified lines.
package diff

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// ChangeType classifies a line or word run.
type ChangeType string

const (
	Unchanged ChangeType = "unchanged"
	Added     ChangeType = "added"
	Removed   ChangeType = "removed"
	Modified  ChangeType = "modified"
)

// WordChange is a run of tokens (words and the whitespace between them).
type WordChange struct {
	Type ChangeType `json:"type" yaml:"type"`
	Text string     `json:"text" yaml:"text"`
}

// LineChange describes one line. Line numbers are 1-based; 0 means the
// line does not exist on that side.
type LineChange struct {
	Type         ChangeType   `json:"type" yaml:"type"`
	OriginalLine int          `json:"original_line,omitempty" yaml:"original_line,omitempty"`
	CleanedLine  int          `json:"cleaned_line,omitempty" yaml:"cleaned_line,omitempty"`
	Original     string       `json:"original,omitempty" yaml:"original,omitempty"`
	Cleaned      string       `json:"cleaned,omitempty" yaml:"cleaned,omitempty"`
	WordDiff     []WordChange `json:"word_diff,omitempty" yaml:"word_diff,omitempty"`
}

// LineStats counts line changes by type.
type LineStats struct {
	LinesRemoved   int `json:"lines_removed" yaml:"lines_removed"`
	LinesAdded     int `json:"lines_added" yaml:"lines_added"`
	LinesModified  int `json:"lines_modified" yaml:"lines_modified"`
	LinesUnchanged int `json:"lines_unchanged" yaml:"lines_unchanged"`
}

// LineDiff is the full line-level comparison.
type LineDiff struct {
	Changes     []LineChange `json:"changes" yaml:"changes"`
	Stats       LineStats    `json:"stats" yaml:"stats"`
	UnifiedDiff string       `json:"unified_diff" yaml:"unified_diff"`
}

// Lines diffs original against cleaned. Within a replaced block, lines are
// paired in order and each pair gets a word diff; leftovers are plain
// removals or additions.
func Lines(original, cleaned string) (*LineDiff, error) {
	a, b := SplitLines(original), SplitLines(cleaned)
	d := &LineDiff{Changes: []LineChange{}}

	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch op.Tag {
		case 'e':
			for k := 0; k < op.I2-op.I1; k++ {
				line := a[op.I1+k]
				d.add(LineChange{Type: Unchanged, OriginalLine: op.I1 + k + 1, CleanedLine: op.J1 + k + 1, Original: line, Cleaned: line})
			}
		case 'd':
			d.removed(a, op.I1, op.I2)
		case 'i':
			d.added(b, op.J1, op.J2)
		case 'r':
			n, m := op.I2-op.I1, op.J2-op.J1
			pairs := min(n, m)
			for k := 0; k < pairs; k++ {
				o, c := a[op.I1+k], b[op.J1+k]
				d.add(LineChange{
					Type:         Modified,
					OriginalLine: op.I1 + k + 1,
					CleanedLine:  op.J1 + k + 1,
					Original:     o,
					Cleaned:      c,
					WordDiff:     Words(o, c),
				})
			}
			d.removed(a, op.I1+pairs, op.I2)
			d.added(b, op.J1+pairs, op.J2)
		}
	}

	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(cleaned),
		FromFile: "Original",
		ToFile:   "Cleaned",
		Context:  3,
	})
	if err != nil {
		return nil, fmt.Errorf("unified diff: %w", err)
	}
	d.UnifiedDiff = unified
	return d, nil
}

func (d *LineDiff) add(c LineChange) {
	d.Changes = append(d.Changes, c)
	switch c.Type {
	case Unchanged:
		d.Stats.LinesUnchanged++
	case Added:
		d.Stats.LinesAdded++
	case Removed:
		d.Stats.LinesRemoved++
	case Modified:
		d.Stats.LinesModified++
	}
}

func (d *LineDiff) removed(lines []string, from, to int) {
	for i := from; i < to; i++ {
		d.add(LineChange{Type: Removed, OriginalLine: i + 1, Original: lines[i]})
	}
}

func (d *LineDiff) added(lines []string, from, to int) {
	for j := from; j < to; j++ {
		d.add(LineChange{Type: Added, CleanedLine: j + 1, Cleaned: lines[j]})
	}
}

var tokenRe = regexp.MustCompile(`\S+|\s+`)

// Words diffs two lines token by token, keeping whitespace tokens so the
// runs concatenate back to the inputs.
func Words(original, cleaned string) []WordChange {
	a := tokenRe.FindAllString(original, -1)
	b := tokenRe.FindAllString(cleaned, -1)

	var out []WordChange
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch op.Tag {
		case 'e':
			out = append(out, WordChange{Unchanged, strings.Join(a[op.I1:op.I2], "")})
		case 'd':
			out = append(out, WordChange{Removed, strings.Join(a[op.I1:op.I2], "")})
		case 'i':
			out = append(out, WordChange{Added, strings.Join(b[op.J1:op.J2], "")})
		case 'r':
			out = append(out,
				WordChange{Removed, strings.Join(a[op.I1:op.I2], "")},
				WordChange{Added, strings.Join(b[op.J1:op.J2], "")})
		}
	}
	return out
}

// SplitLines splits on newlines without keeping them. A trailing newline
// does not start a new line and "\r\n" counts as one break.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	return strings.Split(s, "\n")
}

// Ratio returns the line-level similarity in [0, 1].
func Ratio(original, cleaned string) float64 {
	a, b := SplitLines(original), SplitLines(cleaned)
	if len(a)+len(b) == 0 {
		return 1
	}
	return difflib.NewMatcher(a, b).Ratio()
}

// Summary is a quick comparison without per-line detail.
type Summary struct {
	OriginalLines   int     `json:"original_lines" yaml:"original_lines"`
	CleanedLines    int     `json:"cleaned_lines" yaml:"cleaned_lines"`
	OriginalWords   int     `json:"original_words" yaml:"original_words"`
	CleanedWords    int     `json:"cleaned_words" yaml:"cleaned_words"`
	OriginalChars   int     `json:"original_chars" yaml:"original_chars"`
	CleanedChars    int     `json:"cleaned_chars" yaml:"cleaned_chars"`
	WordsRemoved    int     `json:"words_removed" yaml:"words_removed"`
	LinesChanged    int     `json:"lines_changed" yaml:"lines_changed"`
	SimilarityRatio float64 `json:"similarity_ratio" yaml:"similarity_ratio"`
}

// Summarize counts lines, words and characters on both sides. The
// similarity ratio is a percentage with one decimal.
func Summarize(original, cleaned string) Summary {
	ol, cl := len(SplitLines(original)), len(SplitLines(cleaned))
	ow, cw := len(strings.Fields(original)), len(strings.Fields(cleaned))
	return Summary{
		OriginalLines:   ol,
		CleanedLines:    cl,
		OriginalWords:   ow,
		CleanedWords:    cw,
		OriginalChars:   utf8.RuneCountInString(original),
		CleanedChars:    utf8.RuneCountInString(cleaned),
		WordsRemoved:    ow - cw,
		LinesChanged:    ol - cl,
		SimilarityRatio: math.Round(Ratio(original, cleaned)*1000) / 10,
	}
}
