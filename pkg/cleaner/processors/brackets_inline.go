package processors

import (
	"regexp"
	"strings"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/pattern"
)

// InlineBracketsLabel labels inline bracket removals.
const InlineBracketsLabel = "Inline bracketed notes"

var bracketPattern = regexp.MustCompile(`\[.*?\]`)

// ExceptionArgs configures processors whose only option is an exception
// list.
type ExceptionArgs struct {
	ExceptionPatterns []string `json:"exception_patterns" yaml:"exception_patterns" mapstructure:"exception_patterns"`
}

// DefaultExceptionArgs returns the standard exception list.
func DefaultExceptionArgs() ExceptionArgs {
	return ExceptionArgs{ExceptionPatterns: clonePatterns(DefaultExceptionPatterns)}
}

// BracketsInline removes inline [notes] but keeps paragraphs that are a
// single bracket pair end to end, which are usually spoken content.
type BracketsInline struct {
	exceptions *pattern.Matcher
}

// NewBracketsInline creates the processor.
func NewBracketsInline(args ExceptionArgs) (*BracketsInline, error) {
	m, err := pattern.Compile(args.ExceptionPatterns)
	if err != nil {
		return nil, err
	}
	return &BracketsInline{exceptions: m}, nil
}

func (p *BracketsInline) Name() string { return "brackets_inline" }

func (p *BracketsInline) Description() string {
	return "Removes inline [bracketed notes] but keeps full bracketed paragraphs"
}

func (p *BracketsInline) Process(text string, doc *document.Document) (string, []cleaner.Removal, error) {
	rec := cleaner.NewCollector(p.Name(), cleaner.CategoryBracket, cleaner.KindInline, InlineBracketsLabel, true)

	strip := func(s string) string {
		if IsFullParagraphBracket(s) {
			return s
		}
		return bracketPattern.ReplaceAllStringFunc(s, func(m string) string {
			if p.exceptions.MatchAny(m) {
				return m
			}
			rec.Add(m)
			return ""
		})
	}

	if doc != nil {
		for _, para := range doc.Kept() {
			para.SetText(strip(para.Text))
		}
		text = doc.Text()
	} else {
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = strip(line)
		}
		text = strings.Join(lines, "\n")
	}

	if r, ok := rec.Result(); ok {
		return text, []cleaner.Removal{r}, nil
	}
	return text, nil, nil
}

// IsFullParagraphBracket reports whether s, trimmed, is one balanced
// bracket pair spanning the whole text. "[a] and [b]" is not.
func IsFullParagraphBracket(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return false
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 && i < len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}
