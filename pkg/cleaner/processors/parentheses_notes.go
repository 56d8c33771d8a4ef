package processors

import (
	"regexp"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/pattern"
)

var parenPattern = regexp.MustCompile(`\([^)]+\)`)

// classifiedPattern is a non-speech pattern tagged with what it detects.
type classifiedPattern struct {
	re   *regexp.Regexp
	kind cleaner.Kind
}

func classified(kind cleaner.Kind, exprs ...string) []classifiedPattern {
	out := make([]classifiedPattern, len(exprs))
	for i, e := range exprs {
		out[i] = classifiedPattern{re: regexp.MustCompile("(?i)" + e), kind: kind}
	}
	return out
}

// defaultNonSpeech are the parenthesized notes that were never spoken:
// source citations, cross-references, structural markers and stage
// directions.
var defaultNonSpeech = concat(
	classified(cleaner.KindCitation,
		`\([א-ת]+\s+[א-ת]{1,2}[',׳]?\s*,?\s*[א-ת]{1,2}\)`, // (תהלים קיט, א)
		`\([א-ת]+\s+\d+[,:\s]+\d+\)`,                     // (בראשית 1:1)
	),
	classified(cleaner.KindCrossReference,
		`\(ראה\s+[^)]+\)`,
		`\(עיין\s+[^)]+\)`,
	),
	classified(cleaner.KindEditorNote,
		`\(המשך\)`,
		`\(סיום\)`,
	),
	classified(cleaner.KindStageDirection,
		`\(צוחק\)`,
		`\(צוחקים\)`,
		`\(מחיאות\s*כפיים\)`,
		`\(הפסקה\)`,
		`\(לא\s+נשמע\)`,
		`\(לא\s+ברור\)`,
		`\(חסר\)`,
	),
)

func concat(groups ...[]classifiedPattern) []classifiedPattern {
	var out []classifiedPattern
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var parenLabels = map[cleaner.Kind]string{
	cleaner.KindCitation:       "Parenthetical citations",
	cleaner.KindCrossReference: "Parenthetical cross-references",
	cleaner.KindEditorNote:     "Parenthetical editorial markers",
	cleaner.KindStageDirection: "Parenthetical stage directions",
	cleaner.KindNone:           "Parenthetical non-speech notes",
}

var parenKindOrder = []cleaner.Kind{
	cleaner.KindCitation,
	cleaner.KindCrossReference,
	cleaner.KindEditorNote,
	cleaner.KindStageDirection,
	cleaner.KindNone,
}

// ParenthesesNotesArgs configures ParenthesesNotes.
type ParenthesesNotesArgs struct {
	// NonSpeechPatterns replace the built-in list when set. Matches of
	// custom patterns are unclassified.
	NonSpeechPatterns []string `json:"non_speech_patterns" yaml:"non_speech_patterns" mapstructure:"non_speech_patterns"`
	ExceptionPatterns []string `json:"exception_patterns" yaml:"exception_patterns" mapstructure:"exception_patterns"`
	RemoveAll         bool     `json:"remove_all" yaml:"remove_all" mapstructure:"remove_all"`
}

// DefaultParenthesesNotesArgs uses the built-in non-speech patterns.
func DefaultParenthesesNotesArgs() ParenthesesNotesArgs {
	return ParenthesesNotesArgs{ExceptionPatterns: clonePatterns(DefaultExceptionPatterns)}
}

// ParenthesesNotes removes parenthesized content that was not spoken.
// Most parentheses in transcripts are spoken translations or asides, so
// only known non-speech forms are removed unless RemoveAll is set.
type ParenthesesNotes struct {
	patterns   []classifiedPattern
	exceptions *pattern.Matcher
	removeAll  bool
}

// NewParenthesesNotes creates the processor.
func NewParenthesesNotes(args ParenthesesNotesArgs) (*ParenthesesNotes, error) {
	exceptions, err := pattern.Compile(args.ExceptionPatterns)
	if err != nil {
		return nil, err
	}
	p := &ParenthesesNotes{exceptions: exceptions, removeAll: args.RemoveAll, patterns: defaultNonSpeech}
	if len(args.NonSpeechPatterns) > 0 {
		custom, err := pattern.Compile(args.NonSpeechPatterns)
		if err != nil {
			return nil, err
		}
		p.patterns = nil
		for _, re := range custom.Regexps() {
			p.patterns = append(p.patterns, classifiedPattern{re: re})
		}
	}
	return p, nil
}

func (p *ParenthesesNotes) Name() string { return "parentheses_notes" }

func (p *ParenthesesNotes) Description() string {
	return "Removes parenthetical (notes) matching non-speech patterns; most parentheses are spoken"
}

// classify returns the kind of non-speech note m is, or false when m
// should be kept.
func (p *ParenthesesNotes) classify(m string) (cleaner.Kind, bool) {
	for _, cp := range p.patterns {
		if cp.re.MatchString(m) {
			return cp.kind, true
		}
	}
	return cleaner.KindNone, p.removeAll
}

func (p *ParenthesesNotes) Process(text string, doc *document.Document) (string, []cleaner.Removal, error) {
	recs := make(map[cleaner.Kind]*cleaner.Collector, len(parenLabels))
	for kind, label := range parenLabels {
		recs[kind] = cleaner.NewCollector(p.Name(), cleaner.CategoryParenthetical, kind, label, false)
	}

	strip := func(s string) string {
		return parenPattern.ReplaceAllStringFunc(s, func(m string) string {
			if p.exceptions.MatchAny(m) {
				return m
			}
			kind, remove := p.classify(m)
			if !remove {
				return m
			}
			recs[kind].Add(m)
			return ""
		})
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
	for _, kind := range parenKindOrder {
		if r, ok := recs[kind].Result(); ok {
			removed = append(removed, r)
		}
	}
	return text, removed, nil
}
