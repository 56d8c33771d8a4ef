package processors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/pattern"
)

// RegexArgs configures Regex.
type RegexArgs struct {
	Patterns          []LabeledPattern `json:"patterns" yaml:"patterns" mapstructure:"patterns" validate:"dive"`
	ExceptionPatterns []string         `json:"exception_patterns" yaml:"exception_patterns" mapstructure:"exception_patterns"`
}

// DefaultRegexArgs removes bracketed and parenthesized notes.
func DefaultRegexArgs() RegexArgs {
	patterns := make([]LabeledPattern, len(BracketPatterns))
	copy(patterns, BracketPatterns)
	return RegexArgs{Patterns: patterns, ExceptionPatterns: clonePatterns(DefaultExceptionPatterns)}
}

type labeledRegexp struct {
	re    *regexp.Regexp
	label string
}

// Regex applies labeled patterns, multi-line and case-insensitive, and
// deletes matches that do not hit an exception. Matches of the
// "excessive newlines" pattern collapse to a blank line instead.
type Regex struct {
	patterns   []labeledRegexp
	exceptions *pattern.Matcher
}

// NewRegex creates the processor.
func NewRegex(args RegexArgs) (*Regex, error) {
	exceptions, err := pattern.Compile(args.ExceptionPatterns)
	if err != nil {
		return nil, err
	}
	r := &Regex{exceptions: exceptions}
	for _, lp := range args.Patterns {
		re, err := regexp.Compile("(?im)" + lp.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", pattern.ErrInvalidPattern, lp.Pattern, err)
		}
		r.patterns = append(r.patterns, labeledRegexp{re: re, label: lp.Label})
	}
	return r, nil
}

func (p *Regex) Name() string { return "regex" }

func (p *Regex) Description() string {
	return "Applies regex patterns to remove matching content"
}

func (p *Regex) Process(text string, doc *document.Document) (string, []cleaner.Removal, error) {
	var removed []cleaner.Removal
	for _, lp := range p.patterns {
		rec := cleaner.NewCollector(p.Name(), cleaner.CategoryRegex, cleaner.KindNone, lp.label, false)

		apply := func(s string) string {
			return lp.re.ReplaceAllStringFunc(s, func(m string) string {
				if p.exceptions.MatchAny(m) {
					return m
				}
				rec.Add(m)
				if strings.EqualFold(lp.label, ExcessiveNewlinesLabel) {
					return "\n\n"
				}
				return ""
			})
		}

		if doc != nil {
			for _, para := range doc.Kept() {
				para.SetText(apply(para.Text))
			}
		} else {
			text = apply(text)
		}

		if r, ok := rec.Result(); ok {
			removed = append(removed, r)
		}
	}

	if doc != nil {
		text = doc.Text()
	}
	return text, removed, nil
}
