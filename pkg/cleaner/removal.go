package cleaner

import (
	"fmt"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

// MaxMatches bounds the sample matches kept on a Removal.
const MaxMatches = 10

// Category identifies which kind of processor produced a Removal. Clean-rate
// rules select on it.
type Category int

const (
	CategoryUnknown Category = iota
	CategorySpecialChars
	CategoryWhitespace
	CategorySeifMarker
	CategoryForceRemove
	CategoryTitle
	CategoryBracket
	CategoryParenthetical
	CategoryEditorial
	CategoryRegex
)

var categoryNames = map[Category]string{
	CategoryUnknown:       "unknown",
	CategorySpecialChars:  "special_chars",
	CategoryWhitespace:    "whitespace",
	CategorySeifMarker:    "seif_marker",
	CategoryForceRemove:   "force_remove",
	CategoryTitle:         "title",
	CategoryBracket:       "bracket",
	CategoryParenthetical: "parenthetical",
	CategoryEditorial:     "editorial",
	CategoryRegex:         "regex",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	for k, v := range categoryNames {
		if v == string(b) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown removal category %q", string(b))
}

// Kind refines a Category, e.g. which pattern family matched.
type Kind string

const (
	KindNone           Kind = ""
	KindHeadingStyle   Kind = "heading_style"
	KindShort          Kind = "short"
	KindLargeFont      Kind = "large_font"
	KindBoldShort      Kind = "bold_short"
	KindInline         Kind = "inline"
	KindFullParagraph  Kind = "full_paragraph"
	KindCitation       Kind = "citation"
	KindCrossReference Kind = "cross_reference"
	KindPositionMarker Kind = "position_marker"
	KindStageDirection Kind = "stage_direction"
	KindEditorNote     Kind = "editor_note"
)

// Signal is a formatting cue that contributed to a title removal.
type Signal string

const (
	SignalHeadingStyle Signal = "heading_style"
	SignalLargeFont    Signal = "large_font"
	SignalBold         Signal = "bold"
	SignalShort        Signal = "short"
)

// Position locates one removed span in the original document text.
type Position struct {
	Start  int    `json:"start" yaml:"start"`
	End    int    `json:"end" yaml:"end"`
	Text   string `json:"text" yaml:"text"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Removal describes one group of content a processor removed.
type Removal struct {
	Processor string     `json:"processor" yaml:"processor"`
	Category  Category   `json:"category" yaml:"category"`
	Kind      Kind       `json:"kind,omitempty" yaml:"kind,omitempty"`
	Pattern   string     `json:"pattern" yaml:"pattern"`
	Matches   []string   `json:"matches" yaml:"matches"`
	Count     int        `json:"count" yaml:"count"`
	Positions []Position `json:"positions,omitempty" yaml:"positions,omitempty"`
	Signals   []Signal   `json:"signals,omitempty" yaml:"signals,omitempty"`
}

// Sample returns representative removed text: the first match, else the
// first position's text.
func (r Removal) Sample() string {
	if len(r.Matches) > 0 {
		return r.Matches[0]
	}
	if len(r.Positions) > 0 {
		return r.Positions[0].Text
	}
	return ""
}

// HasSignal reports whether s is among the removal's signals.
func (r Removal) HasSignal(s Signal) bool {
	for _, v := range r.Signals {
		if v == s {
			return true
		}
	}
	return false
}

// Collector accumulates matches for one Removal, keeping at most MaxMatches
// samples while counting every occurrence.
type Collector struct {
	Removal
	unique bool
	seen   map[string]struct{}
}

// NewCollector starts a record. When unique is set, duplicate matches are
// counted but sampled once.
func NewCollector(processor string, cat Category, kind Kind, label string, unique bool) *Collector {
	c := &Collector{
		Removal: Removal{Processor: processor, Category: cat, Kind: kind, Pattern: label, Matches: []string{}},
		unique:  unique,
	}
	if unique {
		c.seen = make(map[string]struct{})
	}
	return c
}

// Add counts one occurrence of match.
func (c *Collector) Add(match string) {
	c.Count++
	if c.unique {
		if _, ok := c.seen[match]; ok {
			return
		}
		c.seen[match] = struct{}{}
	}
	if len(c.Matches) < MaxMatches {
		c.Matches = append(c.Matches, match)
	}
}

// AddPosition records a located span and counts it as one occurrence.
func (c *Collector) AddPosition(p Position) {
	c.Positions = append(c.Positions, p)
	c.Add(p.Text)
}

// Result returns the record, or false when nothing was collected.
func (c *Collector) Result() (Removal, bool) {
	if c.Count == 0 {
		return Removal{}, false
	}
	return c.Removal, true
}

// ParagraphPosition builds a position covering a whole paragraph, with the
// text truncated to 100 characters.
func ParagraphPosition(p *document.Paragraph, reason string) Position {
	return Position{Start: p.StartPos, End: p.EndPos, Text: p.Preview(100), Reason: reason}
}
