package processors

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/gematria"
)

// SeifMarkerLabel labels seif marker removals.
const SeifMarkerLabel = "Seif markers (gematria)"

// seifPattern matches a leading Hebrew-letter numeral, an optional
// asterisk, a period and trailing whitespace, e.g. "יא. " or "ג*.".
var seifPattern = regexp.MustCompile(`^([א-ת]+)\*?\.\s*`)

// SeifMarker strips leading seif numerals whose letters form a valid
// gematria value.
type SeifMarker struct{}

// NewSeifMarker creates the processor.
func NewSeifMarker() *SeifMarker { return &SeifMarker{} }

func (p *SeifMarker) Name() string { return "seif_marker" }

func (p *SeifMarker) Description() string {
	return "Removes seif markers (Hebrew letter numerals followed by a period) at paragraph start"
}

func (p *SeifMarker) Process(text string, doc *document.Document) (string, []cleaner.Removal, error) {
	rec := cleaner.NewCollector(p.Name(), cleaner.CategorySeifMarker, cleaner.KindNone, SeifMarkerLabel, false)

	if doc != nil {
		for _, para := range doc.Kept() {
			if rest, pos, ok := stripSeif(para.Text, para.StartPos); ok {
				rec.AddPosition(pos)
				para.SetText(rest)
			}
		}
		text = doc.Text()
	} else {
		lines := strings.Split(text, "\n")
		offset := 0
		for i, line := range lines {
			if rest, pos, ok := stripSeif(line, offset); ok {
				rec.AddPosition(pos)
				lines[i] = rest
			}
			offset += utf8.RuneCountInString(line) + 1
		}
		text = strings.Join(lines, "\n")
	}

	if r, ok := rec.Result(); ok {
		return text, []cleaner.Removal{r}, nil
	}
	return text, nil, nil
}

// stripSeif removes a valid seif marker from the start of s. start is the
// offset of s in the original document.
func stripSeif(s string, start int) (string, cleaner.Position, bool) {
	m := seifPattern.FindStringSubmatchIndex(s)
	if m == nil || !gematria.IsValid(s[m[2]:m[3]]) {
		return s, cleaner.Position{}, false
	}
	marker := s[:m[1]]
	return s[m[1]:], cleaner.Position{
		Start:  start,
		End:    start + utf8.RuneCountInString(marker),
		Text:   strings.TrimSpace(marker),
		Reason: SeifMarkerLabel,
	}, true
}
