package processors

import (
	"fmt"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/pattern"
)

// Labels used by TitleStyle and ForceRemove records.
const (
	HeadingStyleLabel = "Word heading styles"
	LargeFontLabel    = "Larger than normal text"
	ForceRemoveLabel  = "Force removed (contains blocked patterns)"
)

// TitleStyleArgs configures TitleStyle.
type TitleStyleArgs struct {
	MinWords            int      `json:"min_words" yaml:"min_words" mapstructure:"min_words" validate:"gte=0"`
	SizeThreshold       float64  `json:"size_threshold" yaml:"size_threshold" mapstructure:"size_threshold" validate:"gt=0"`
	BoldMaxWords        int      `json:"bold_max_words" yaml:"bold_max_words" mapstructure:"bold_max_words" validate:"gte=0"`
	ExceptionPatterns   []string `json:"exception_patterns" yaml:"exception_patterns" mapstructure:"exception_patterns"`
	ForceRemovePatterns []string `json:"force_remove_patterns" yaml:"force_remove_patterns" mapstructure:"force_remove_patterns"`
}

// DefaultTitleStyleArgs returns the standard thresholds and pattern lists.
func DefaultTitleStyleArgs() TitleStyleArgs {
	return TitleStyleArgs{
		MinWords:            5,
		SizeThreshold:       document.DefaultSizeThreshold,
		BoldMaxWords:        15,
		ExceptionPatterns:   clonePatterns(DefaultExceptionPatterns),
		ForceRemovePatterns: clonePatterns(DefaultForceRemovePatterns),
	}
}

// TitleStyle removes whole paragraphs that look like titles: heading
// styles, short paragraphs, oversized fonts and short bold lines.
// Without a document it leaves text unchanged.
type TitleStyle struct {
	args       TitleStyleArgs
	exceptions *pattern.Matcher
	force      *pattern.Matcher
}

// NewTitleStyle creates the processor.
func NewTitleStyle(args TitleStyleArgs) (*TitleStyle, error) {
	exceptions, err := pattern.Compile(args.ExceptionPatterns)
	if err != nil {
		return nil, err
	}
	force, err := pattern.Compile(args.ForceRemovePatterns)
	if err != nil {
		return nil, err
	}
	return &TitleStyle{args: args, exceptions: exceptions, force: force}, nil
}

func (p *TitleStyle) Name() string { return "title_style" }

func (p *TitleStyle) Description() string {
	return "Removes titles based on Word styles, size, and paragraph length"
}

// titleGroup accumulates one record plus the signals every member shared.
type titleGroup struct {
	rec     *cleaner.Collector
	signals map[cleaner.Signal]bool
}

func (g *titleGroup) add(para *document.Paragraph, reason string, signals []cleaner.Signal) {
	if g.rec.Count == 0 {
		g.signals = make(map[cleaner.Signal]bool, len(signals))
		for _, s := range signals {
			g.signals[s] = true
		}
	} else {
		keep := make(map[cleaner.Signal]bool, len(signals))
		for _, s := range signals {
			if g.signals[s] {
				keep[s] = true
			}
		}
		g.signals = keep
	}
	g.rec.AddPosition(cleaner.ParagraphPosition(para, reason))
}

func (g *titleGroup) result() (cleaner.Removal, bool) {
	r, ok := g.rec.Result()
	if !ok {
		return r, false
	}
	for _, s := range []cleaner.Signal{cleaner.SignalHeadingStyle, cleaner.SignalShort, cleaner.SignalLargeFont, cleaner.SignalBold} {
		if g.signals[s] {
			r.Signals = append(r.Signals, s)
		}
	}
	return r, true
}

func (p *TitleStyle) Process(text string, doc *document.Document) (string, []cleaner.Removal, error) {
	if doc == nil {
		return text, nil, nil
	}

	shortLabel := fmt.Sprintf("Short paragraphs (< %d words)", p.args.MinWords)
	boldLabel := fmt.Sprintf("Bold short paragraphs (< %d words)", p.args.BoldMaxWords)
	newGroup := func(kind cleaner.Kind, label string) *titleGroup {
		return &titleGroup{rec: cleaner.NewCollector(p.Name(), cleaner.CategoryTitle, kind, label, false)}
	}
	heading := newGroup(cleaner.KindHeadingStyle, HeadingStyleLabel)
	short := newGroup(cleaner.KindShort, shortLabel)
	large := newGroup(cleaner.KindLargeFont, LargeFontLabel)
	bold := newGroup(cleaner.KindBoldShort, boldLabel)
	force := cleaner.NewCollector(p.Name(), cleaner.CategoryForceRemove, cleaner.KindNone, ForceRemoveLabel, false)

	for _, para := range doc.Kept() {
		if p.force.MatchAny(para.Text) {
			force.AddPosition(cleaner.ParagraphPosition(para, ForceRemoveLabel))
			para.Remove(p.Name())
			continue
		}
		if p.exceptions.MatchAny(para.Text) {
			continue
		}

		words := para.Words()
		isLarge := doc.LargerThanNormal(para, p.args.SizeThreshold)
		signals := p.signals(para, words, isLarge)

		switch {
		case para.IsHeadingStyle:
			heading.add(para, HeadingStyleLabel, signals)
		case words < p.args.MinWords:
			short.add(para, shortLabel, signals)
		case isLarge:
			large.add(para, LargeFontLabel, signals)
		case para.IsBold && words < p.args.BoldMaxWords:
			bold.add(para, boldLabel, signals)
		default:
			continue
		}
		para.Remove(p.Name())
	}

	var removed []cleaner.Removal
	for _, g := range []*titleGroup{heading, short, large, bold} {
		if r, ok := g.result(); ok {
			removed = append(removed, r)
		}
	}
	if r, ok := force.Result(); ok {
		removed = append(removed, r)
	}
	return doc.Text(), removed, nil
}

func (p *TitleStyle) signals(para *document.Paragraph, words int, isLarge bool) []cleaner.Signal {
	var s []cleaner.Signal
	if para.IsHeadingStyle {
		s = append(s, cleaner.SignalHeadingStyle)
	}
	if words < p.args.MinWords {
		s = append(s, cleaner.SignalShort)
	}
	if isLarge {
		s = append(s, cleaner.SignalLargeFont)
	}
	if para.IsBold {
		s = append(s, cleaner.SignalBold)
	}
	return s
}
