package processors

import (
	"fmt"
	"strings"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

// SpecialCharsArgs configures SpecialChars.
type SpecialCharsArgs struct {
	Chars []string `json:"chars" yaml:"chars" mapstructure:"chars" validate:"dive,required"`
}

// SpecialChars strips invisible characters.
type SpecialChars struct {
	chars []string
}

// NewSpecialChars creates the processor. An empty char list uses
// DefaultSpecialChars.
func NewSpecialChars(args SpecialCharsArgs) *SpecialChars {
	chars := args.Chars
	if len(chars) == 0 {
		chars = DefaultSpecialChars
	}
	return &SpecialChars{chars: clonePatterns(chars)}
}

func (p *SpecialChars) Name() string { return "special_chars" }

func (p *SpecialChars) Description() string {
	return "Removes invisible special characters (zero-width spaces, BOM, direction marks)"
}

func (p *SpecialChars) Process(text string, doc *document.Document) (string, []cleaner.Removal, error) {
	counts := make([]int, len(p.chars))

	strip := func(s string) string {
		for i, c := range p.chars {
			if n := strings.Count(s, c); n > 0 {
				counts[i] += n
				s = strings.ReplaceAll(s, c, "")
			}
		}
		return s
	}

	if doc != nil {
		for _, para := range doc.Kept() {
			para.SetText(strip(para.Text))
		}
		text = doc.Text()
	} else {
		text = strip(text)
	}

	var removed []cleaner.Removal
	for i, c := range p.chars {
		if counts[i] == 0 {
			continue
		}
		code := codepoint(c)
		samples := min(counts[i], cleaner.MaxMatches)
		matches := make([]string, samples)
		for j := range matches {
			matches[j] = "U+" + strings.ToUpper(code)
		}
		removed = append(removed, cleaner.Removal{
			Processor: p.Name(),
			Category:  cleaner.CategorySpecialChars,
			Pattern:   fmt.Sprintf("Special character (unicode %s)", code),
			Matches:   matches,
			Count:     counts[i],
		})
	}
	return text, removed, nil
}

// codepoint renders the first rune of s as lowercase hex, e.g. "200b".
func codepoint(s string) string {
	for _, r := range s {
		return fmt.Sprintf("%04x", r)
	}
	return ""
}
