package processors

import (
	"strings"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/pattern"
)

// ForceRemoveArgs configures ForceRemove.
type ForceRemoveArgs struct {
	ForceRemovePatterns []string `json:"force_remove_patterns" yaml:"force_remove_patterns" mapstructure:"force_remove_patterns"`
}

// DefaultForceRemoveArgs returns the standard blocked patterns.
func DefaultForceRemoveArgs() ForceRemoveArgs {
	return ForceRemoveArgs{ForceRemovePatterns: clonePatterns(DefaultForceRemovePatterns)}
}

// ForceRemove drops every paragraph containing a blocked pattern.
type ForceRemove struct {
	force *pattern.Matcher
}

// NewForceRemove creates the processor.
func NewForceRemove(args ForceRemoveArgs) (*ForceRemove, error) {
	m, err := pattern.Compile(args.ForceRemovePatterns)
	if err != nil {
		return nil, err
	}
	return &ForceRemove{force: m}, nil
}

func (p *ForceRemove) Name() string { return "force_remove" }

func (p *ForceRemove) Description() string {
	return "Removes paragraphs containing blocked words/phrases (regex patterns)"
}

func (p *ForceRemove) Process(text string, doc *document.Document) (string, []cleaner.Removal, error) {
	rec := cleaner.NewCollector(p.Name(), cleaner.CategoryForceRemove, cleaner.KindNone, ForceRemoveLabel, false)

	if doc != nil {
		for _, para := range doc.Kept() {
			if p.force.MatchAny(para.Text) {
				rec.AddPosition(cleaner.ParagraphPosition(para, ForceRemoveLabel))
				para.Remove(p.Name())
			}
		}
		text = doc.Text()
	} else {
		lines := strings.Split(text, "\n")
		kept := lines[:0]
		for _, line := range lines {
			if strings.TrimSpace(line) != "" && p.force.MatchAny(line) {
				rec.Add(document.Truncate(line, 100))
				continue
			}
			kept = append(kept, line)
		}
		text = strings.Join(kept, "\n")
	}

	if r, ok := rec.Result(); ok {
		return text, []cleaner.Removal{r}, nil
	}
	return text, nil, nil
}
