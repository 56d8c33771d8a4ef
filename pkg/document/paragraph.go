package document

import (
	"strings"
	"unicode/utf8"
)

// RunStyle is the character formatting of a run. Pointer fields are nil when
// the source does not say (the value is inherited from the paragraph style).
type RunStyle struct {
	Bold        *bool    `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic      *bool    `json:"italic,omitempty" yaml:"italic,omitempty"`
	Underline   *bool    `json:"underline,omitempty" yaml:"underline,omitempty"`
	Strike      *bool    `json:"strike,omitempty" yaml:"strike,omitempty"`
	Superscript *bool    `json:"superscript,omitempty" yaml:"superscript,omitempty"`
	Subscript   *bool    `json:"subscript,omitempty" yaml:"subscript,omitempty"`
	FontSize    *float64 `json:"font_size,omitempty" yaml:"font_size,omitempty" validate:"omitempty,gt=0"`
	FontName    string   `json:"font_name,omitempty" yaml:"font_name,omitempty"`
	ColorRGB    []int    `json:"color_rgb,omitempty" yaml:"color_rgb,omitempty" validate:"omitempty,len=3,dive,min=0,max=255"`
}

// Run is a span of text sharing one RunStyle.
type Run struct {
	Text  string   `json:"text" yaml:"text"`
	Style RunStyle `json:"style" yaml:"style"`
}

// Format holds paragraph-level layout.
type Format struct {
	Alignment   string `json:"alignment,omitempty" yaml:"alignment,omitempty" validate:"omitempty,oneof=left right center both justify distribute start end"`
	RightToLeft bool   `json:"right_to_left,omitempty" yaml:"right_to_left,omitempty"`
}

// Paragraph is one block of a transcript plus the formatting signals the
// processors consult.
type Paragraph struct {
	Text               string   `json:"text" yaml:"text"`
	OriginalText       string   `json:"original_text,omitempty" yaml:"original_text,omitempty"`
	StartPos           int      `json:"start_pos" yaml:"start_pos"`
	EndPos             int      `json:"end_pos" yaml:"end_pos"`
	StyleName          string   `json:"style_name,omitempty" yaml:"style_name,omitempty"`
	IsHeadingStyle     bool     `json:"is_heading_style,omitempty" yaml:"is_heading_style,omitempty"`
	IsBold             bool     `json:"is_bold,omitempty" yaml:"is_bold,omitempty"`
	FontSize           *float64 `json:"font_size,omitempty" yaml:"font_size,omitempty" validate:"omitempty,gt=0"`
	IsLargerThanNormal bool     `json:"is_larger_than_normal,omitempty" yaml:"is_larger_than_normal,omitempty"`
	WordCount          int      `json:"word_count" yaml:"word_count"`
	CharCount          int      `json:"char_count" yaml:"char_count"`
	Runs               []Run    `json:"runs,omitempty" yaml:"runs,omitempty" validate:"dive"`
	Format             *Format  `json:"format,omitempty" yaml:"format,omitempty"`

	// Removed marks a paragraph dropped by a processor. RemovedBy names it.
	Removed   bool   `json:"removed,omitempty" yaml:"removed,omitempty"`
	RemovedBy string `json:"removed_by,omitempty" yaml:"removed_by,omitempty"`
}

// NewParagraph returns a paragraph holding text with counts filled in.
func NewParagraph(text string) *Paragraph {
	p := &Paragraph{Text: text, OriginalText: text}
	p.recount()
	return p
}

// SetText replaces the paragraph text. When the paragraph has runs they are
// collapsed into a single run carrying the first run's style.
func (p *Paragraph) SetText(text string) {
	if text == p.Text {
		return
	}
	p.Text = text
	if len(p.Runs) > 0 {
		p.Runs = []Run{{Text: text, Style: p.Runs[0].Style}}
	}
}

// Remove marks the paragraph as dropped by the named processor.
func (p *Paragraph) Remove(by string) {
	p.Removed = true
	p.RemovedBy = by
}

// Words returns the current word count.
func (p *Paragraph) Words() int {
	return len(strings.Fields(p.Text))
}

// IsEmpty reports whether the current text is blank.
func (p *Paragraph) IsEmpty() bool {
	return strings.TrimSpace(p.Text) == ""
}

// Preview returns up to n characters of the original text.
func (p *Paragraph) Preview(n int) string {
	return Truncate(p.OriginalText, n)
}

// recount fills the counts from the original text, the same text Reindex
// measures positions over.
func (p *Paragraph) recount() {
	p.WordCount = len(strings.Fields(p.OriginalText))
	p.CharCount = utf8.RuneCountInString(p.OriginalText)
}

// detectBold reports whether every run with visible text is bold.
func (p *Paragraph) detectBold() (bold, known bool) {
	seen := false
	for _, r := range p.Runs {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		seen = true
		if r.Style.Bold == nil || !*r.Style.Bold {
			return false, true
		}
	}
	return seen, seen
}

// runFontSize returns the size of the first run that declares one.
func (p *Paragraph) runFontSize() *float64 {
	for _, r := range p.Runs {
		if r.Style.FontSize != nil {
			v := *r.Style.FontSize
			return &v
		}
	}
	return nil
}

// Truncate returns the first n characters of s.
func Truncate(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
