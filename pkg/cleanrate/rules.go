package cleanrate

import (
	"strings"
	"unicode/utf8"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

// Rule scores one removal record. Rules are consulted in order and the
// first whose AppliesTo returns true decides the penalty.
type Rule interface {
	Name() string
	Description() string
	// MaxPenalty caps what Penalty may contribute for one record.
	MaxPenalty() int
	AppliesTo(r cleaner.Removal) bool
	Penalty(r cleaner.Removal, doc *document.Document) int
}

// RuleInfo describes a rule for listings.
type RuleInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	MaxPenalty  int    `json:"max_penalty" yaml:"max_penalty"`
}

// categoryRule applies a fixed penalty to one category.
type categoryRule struct {
	name, description string
	max               int
	category          cleaner.Category
	penalty           int
}

func (r categoryRule) Name() string { return r.name }
func (r categoryRule) Description() string { return r.description }
func (r categoryRule) MaxPenalty() int { return r.max }
func (r categoryRule) AppliesTo(rm cleaner.Removal) bool { return rm.Category == r.category }
func (r categoryRule) Penalty(cleaner.Removal, *document.Document) int { return r.penalty }

// SpecialCharsRule never penalizes: invisible characters are never spoken.
func SpecialCharsRule() Rule {
	return categoryRule{"special_chars_removal", "No penalty for removing invisible characters", 0, cleaner.CategorySpecialChars, 0}
}

// WhitespaceRule never penalizes whitespace normalization.
func WhitespaceRule() Rule {
	return categoryRule{"whitespace_removal", "No penalty for whitespace normalization", 0, cleaner.CategoryWhitespace, 0}
}

// SeifMarkerRule never penalizes gematria-validated section markers.
func SeifMarkerRule() Rule {
	return categoryRule{"seif_marker_removal", "No penalty for removing validated seif markers", 5, cleaner.CategorySeifMarker, 0}
}

// ForceRemoveRule never penalizes removals the user asked for explicitly.
func ForceRemoveRule() Rule {
	return categoryRule{"force_remove", "No penalty for user-requested removals", 0, cleaner.CategoryForceRemove, 0}
}

// TitleRule grades title removals by how many formatting signals agreed.
// A removal carrying any decisive signal is not penalized.
type TitleRule struct {
	Decisive []cleaner.Signal
}

// NewTitleRule treats Word heading styles and below-threshold word counts
// as decisive.
func NewTitleRule() *TitleRule {
	return &TitleRule{Decisive: []cleaner.Signal{cleaner.SignalHeadingStyle, cleaner.SignalShort}}
}

func (r *TitleRule) Name() string { return "title_style_removal" }
func (r *TitleRule) Description() string { return "Scores based on confidence of title detection" }
func (r *TitleRule) MaxPenalty() int { return 15 }

func (r *TitleRule) AppliesTo(rm cleaner.Removal) bool { return rm.Category == cleaner.CategoryTitle }

func (r *TitleRule) Penalty(rm cleaner.Removal, _ *document.Document) int {
	for _, s := range r.Decisive {
		if rm.HasSignal(s) {
			return 0
		}
	}
	n := 0
	for _, s := range []cleaner.Signal{cleaner.SignalHeadingStyle, cleaner.SignalLargeFont, cleaner.SignalBold, cleaner.SignalShort} {
		if rm.HasSignal(s) {
			n++
		}
	}
	switch {
	case n >= 4:
		return 0
	case n == 3:
		return 1
	case n == 2:
		return 3
	}
	return 5
}

// Bracket penalties.
const (
	InlineBracketPenalty        = 2
	FullParagraphBracketPenalty = 8
	LongBracketPenalty          = 5
)

// BracketRule penalizes bracketed removals: inline notes are usually
// editorial, whole bracketed paragraphs less certainly so.
type BracketRule struct{}

func (BracketRule) Name() string { return "bracket_removal" }
func (BracketRule) Description() string {
	return "Penalizes removal of bracketed content (uncertain if editorial or spoken)"
}
func (BracketRule) MaxPenalty() int { return 30 }
func (BracketRule) AppliesTo(rm cleaner.Removal) bool { return rm.Category == cleaner.CategoryBracket }

func (BracketRule) Penalty(rm cleaner.Removal, _ *document.Document) int {
	switch rm.Kind {
	case cleaner.KindInline:
		return InlineBracketPenalty
	case cleaner.KindFullParagraph:
		return FullParagraphBracketPenalty
	}
	if utf8.RuneCountInString(rm.Sample()) > 100 {
		return LongBracketPenalty
	}
	return InlineBracketPenalty
}

// ParenthesesRule penalizes parenthetical removals, which are often spoken
// translations or asides.
type ParenthesesRule struct{}

func (ParenthesesRule) Name() string { return "parentheses_removal" }
func (ParenthesesRule) Description() string {
	return "Higher penalty for parentheses removal (often spoken content)"
}
func (ParenthesesRule) MaxPenalty() int { return 40 }
func (ParenthesesRule) AppliesTo(rm cleaner.Removal) bool {
	return rm.Category == cleaner.CategoryParenthetical
}

func (ParenthesesRule) Penalty(rm cleaner.Removal, _ *document.Document) int {
	switch rm.Kind {
	case cleaner.KindCitation, cleaner.KindCrossReference:
		return 1
	case cleaner.KindStageDirection, cleaner.KindEditorNote:
		return 2
	}
	return 6
}

// EditorialRule scores editorial Hebrew removals by vocabulary family.
type EditorialRule struct{}

func (EditorialRule) Name() string { return "editorial_hebrew_removal" }
func (EditorialRule) Description() string {
	return "Scores editorial Hebrew removal by reference type"
}
func (EditorialRule) MaxPenalty() int { return 25 }
func (EditorialRule) AppliesTo(rm cleaner.Removal) bool { return rm.Category == cleaner.CategoryEditorial }

func (EditorialRule) Penalty(rm cleaner.Removal, _ *document.Document) int {
	switch rm.Kind {
	case cleaner.KindCitation, cleaner.KindCrossReference:
		return 0
	case cleaner.KindPositionMarker:
		return 1
	}
	return 4
}

// RegexRule penalizes generic pattern removals unless the pattern label
// names a well-known safe family.
type RegexRule struct {
	SafeLabels []string
}

// NewRegexRule treats timestamps, page numbers and separators as safe.
func NewRegexRule() *RegexRule {
	return &RegexRule{SafeLabels: []string{"timestamp", "page number", "separator"}}
}

func (r *RegexRule) Name() string { return "regex_removal" }
func (r *RegexRule) Description() string { return "Moderate penalty for regex pattern removals" }
func (r *RegexRule) MaxPenalty() int { return 20 }
func (r *RegexRule) AppliesTo(rm cleaner.Removal) bool { return rm.Category == cleaner.CategoryRegex }

func (r *RegexRule) Penalty(rm cleaner.Removal, _ *document.Document) int {
	label := strings.ToLower(rm.Pattern)
	for _, safe := range r.SafeLabels {
		if strings.Contains(label, safe) {
			return 0
		}
	}
	return 4
}

// FallbackRule matches anything and applies a moderate penalty.
type FallbackRule struct{}

func (FallbackRule) Name() string { return "unknown_removal" }
func (FallbackRule) Description() string {
	return "Default penalty for unrecognized removal types"
}
func (FallbackRule) MaxPenalty() int { return 30 }
func (FallbackRule) AppliesTo(cleaner.Removal) bool { return true }
func (FallbackRule) Penalty(cleaner.Removal, *document.Document) int { return 3 }

// DefaultRules returns the standard rules in priority order, fallback last.
func DefaultRules() []Rule {
	return []Rule{
		SpecialCharsRule(),
		WhitespaceRule(),
		SeifMarkerRule(),
		ForceRemoveRule(),
		NewTitleRule(),
		BracketRule{},
		ParenthesesRule{},
		EditorialRule{},
		NewRegexRule(),
		FallbackRule{},
	}
}
