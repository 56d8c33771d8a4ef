package cleaner

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Statistics compares original and cleaned text.
type Statistics struct {
	OriginalChars       int     `json:"original_chars" yaml:"original_chars"`
	CleanedChars        int     `json:"cleaned_chars" yaml:"cleaned_chars"`
	RemovedChars        int     `json:"removed_chars" yaml:"removed_chars"`
	OriginalLines       int     `json:"original_lines" yaml:"original_lines"`
	CleanedLines        int     `json:"cleaned_lines" yaml:"cleaned_lines"`
	RemovedLines        int     `json:"removed_lines" yaml:"removed_lines"`
	OriginalWords       int     `json:"original_words" yaml:"original_words"`
	CleanedWords        int     `json:"cleaned_words" yaml:"cleaned_words"`
	RemovedWords        int     `json:"removed_words" yaml:"removed_words"`
	ReductionPercentage float64 `json:"reduction_percentage" yaml:"reduction_percentage"`
}

// ComputeStatistics counts characters, lines and words on both sides.
func ComputeStatistics(original, cleaned string) Statistics {
	oc := utf8.RuneCountInString(original)
	cc := utf8.RuneCountInString(cleaned)
	ol, cl := countLines(original), countLines(cleaned)
	ow, cw := len(strings.Fields(original)), len(strings.Fields(cleaned))
	return Statistics{
		OriginalChars:       oc,
		CleanedChars:        cc,
		RemovedChars:        oc - cc,
		OriginalLines:       ol,
		CleanedLines:        cl,
		RemovedLines:        ol - cl,
		OriginalWords:       ow,
		CleanedWords:        cw,
		RemovedWords:        ow - cw,
		ReductionPercentage: ReductionPercentage(oc, cc),
	}
}

// ReductionPercentage returns (1 - cleaned/original) * 100 rounded to two
// decimals, or 0 when original is 0.
func ReductionPercentage(original, cleaned int) float64 {
	if original == 0 {
		return 0
	}
	pct := (1 - float64(cleaned)/float64(original)) * 100
	return math.Round(pct*100) / 100
}

// String returns a short human-readable summary.
func (s Statistics) String() string {
	return fmt.Sprintf("chars %d -> %d (%.2f%% reduction), lines %d -> %d, words %d -> %d",
		s.OriginalChars, s.CleanedChars, s.ReductionPercentage,
		s.OriginalLines, s.CleanedLines,
		s.OriginalWords, s.CleanedWords)
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
