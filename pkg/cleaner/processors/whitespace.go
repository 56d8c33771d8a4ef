package processors

import (
	"regexp"
	"strings"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

var multiSpace = regexp.MustCompile(` +`)

// Whitespace collapses runs of spaces and trims around newlines. It emits
// no removal records.
type Whitespace struct{}

// NewWhitespace creates the processor.
func NewWhitespace() *Whitespace { return &Whitespace{} }

func (p *Whitespace) Name() string { return "whitespace" }

func (p *Whitespace) Description() string {
	return "Normalizes whitespace (collapses spaces, trims lines)"
}

func (p *Whitespace) Process(text string, doc *document.Document) (string, []cleaner.Removal, error) {
	if doc != nil {
		for _, para := range doc.Kept() {
			para.SetText(NormalizeWhitespace(para.Text))
		}
		return doc.Text(), nil, nil
	}
	return NormalizeWhitespace(text), nil, nil
}

// NormalizeWhitespace collapses space runs to one space, drops spaces
// adjacent to newlines and trims the ends. It is idempotent.
func NormalizeWhitespace(s string) string {
	s = multiSpace.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "\n ", "\n")
	s = strings.ReplaceAll(s, " \n", "\n")
	return strings.TrimSpace(s)
}
