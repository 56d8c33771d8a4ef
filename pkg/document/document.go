// Package document holds the paragraph model a transcript is cleaned
// through. A Document is built once from reader output, enriched with
// heading and font-size heuristics, then mutated in place by processors.
package document

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultFontSize is assumed when no paragraph declares a size.
	DefaultFontSize = 12.0
	// DefaultSizeThreshold is the multiple of the average font size above
	// which a paragraph counts as larger than normal.
	DefaultSizeThreshold = 1.2
)

// Metadata describes where a document came from.
type Metadata struct {
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Format   string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Document is an ordered batch of paragraphs.
type Document struct {
	Paragraphs      []*Paragraph `json:"paragraphs" yaml:"paragraphs" validate:"dive,required"`
	AverageFontSize float64      `json:"average_font_size" yaml:"average_font_size"`
	Metadata        Metadata     `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Options controls enrichment in New.
type Options struct {
	SizeThreshold   float64
	DefaultFontSize float64
	Metadata        Metadata
}

// Option configures New.
type Option func(*Options)

// WithSizeThreshold sets the larger-than-normal multiple.
func WithSizeThreshold(t float64) Option {
	return func(o *Options) { o.SizeThreshold = t }
}

// WithMetadata attaches source metadata.
func WithMetadata(m Metadata) Option {
	return func(o *Options) { o.Metadata = m }
}

// New builds a document from raw paragraphs and enriches them. Blank
// paragraphs are dropped. Original text and counts are filled in, positions
// are assigned over the joined original text, heading style is inferred from
// the style name, and bold and font size are derived from runs when present.
// The larger-than-normal flag is recomputed against the document average for
// paragraphs that carry a font size; others keep the flag they came with.
func New(paragraphs []*Paragraph, opts ...Option) *Document {
	o := Options{SizeThreshold: DefaultSizeThreshold, DefaultFontSize: DefaultFontSize}
	for _, opt := range opts {
		opt(&o)
	}

	d := &Document{Metadata: o.Metadata}
	for _, p := range paragraphs {
		if p == nil || p.IsEmpty() {
			continue
		}
		if strings.TrimSpace(p.OriginalText) == "" {
			p.OriginalText = p.Text
		}
		p.recount()
		if !p.IsHeadingStyle {
			p.IsHeadingStyle = isHeadingStyleName(p.StyleName)
		}
		if bold, known := p.detectBold(); known {
			p.IsBold = bold
		}
		if p.FontSize == nil {
			p.FontSize = p.runFontSize()
		}
		d.Paragraphs = append(d.Paragraphs, p)
	}

	d.Reindex()
	d.computeFontStats(o.SizeThreshold, o.DefaultFontSize)
	return d
}

// FromText builds a document with one paragraph per non-blank line.
func FromText(text string, opts ...Option) *Document {
	var paras []*Paragraph
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		paras = append(paras, NewParagraph(line))
	}
	return New(paras, opts...)
}

// Reindex assigns StartPos/EndPos over the newline-joined original text.
func (d *Document) Reindex() {
	pos := 0
	for _, p := range d.Paragraphs {
		n := utf8.RuneCountInString(p.OriginalText)
		p.StartPos = pos
		p.EndPos = pos + n
		pos += n + 1
	}
}

func (d *Document) computeFontStats(threshold, fallback float64) {
	var sum float64
	var n int
	for _, p := range d.Paragraphs {
		if p.FontSize != nil {
			sum += *p.FontSize
			n++
		}
	}
	if n == 0 {
		d.AverageFontSize = fallback
		return
	}
	d.AverageFontSize = sum / float64(n)
	for _, p := range d.Paragraphs {
		if p.FontSize != nil {
			p.IsLargerThanNormal = *p.FontSize > d.AverageFontSize*threshold
		}
	}
}

// Text joins the text of paragraphs that are neither removed nor blank.
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, len(d.Paragraphs))
	for _, p := range d.Paragraphs {
		if p.Removed || p.IsEmpty() {
			continue
		}
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n")
}

// OriginalText joins the original text of every non-blank paragraph.
func (d *Document) OriginalText() string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, len(d.Paragraphs))
	for _, p := range d.Paragraphs {
		if strings.TrimSpace(p.OriginalText) == "" {
			continue
		}
		parts = append(parts, p.OriginalText)
	}
	return strings.Join(parts, "\n")
}

// Kept returns the paragraphs not yet removed.
func (d *Document) Kept() []*Paragraph {
	out := make([]*Paragraph, 0, len(d.Paragraphs))
	for _, p := range d.Paragraphs {
		if !p.Removed {
			out = append(out, p)
		}
	}
	return out
}

// ParagraphCount returns the number of paragraphs, removed ones included.
func (d *Document) ParagraphCount() int { return len(d.Paragraphs) }

// TotalChars returns the character count of all current paragraph text.
func (d *Document) TotalChars() int {
	n := 0
	for _, p := range d.Paragraphs {
		n += utf8.RuneCountInString(p.Text)
	}
	return n
}

// TotalWords returns the word count of all current paragraph text.
func (d *Document) TotalWords() int {
	n := 0
	for _, p := range d.Paragraphs {
		n += p.Words()
	}
	return n
}

// IsEmpty reports whether no visible text remains.
func (d *Document) IsEmpty() bool {
	return d.Text() == ""
}

// LargerThanNormal reports whether p exceeds the document average by
// threshold. Without size information it falls back to the stored flag.
func (d *Document) LargerThanNormal(p *Paragraph, threshold float64) bool {
	if p.FontSize == nil || d.AverageFontSize <= 0 {
		return p.IsLargerThanNormal
	}
	return *p.FontSize > d.AverageFontSize*threshold
}

func isHeadingStyleName(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "heading") || strings.Contains(name, "title")
}
