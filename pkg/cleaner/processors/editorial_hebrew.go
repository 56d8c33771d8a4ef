package processors

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/pattern"
)

// EditorialReason is the per-position reason on editorial removals.
const EditorialReason = "Editorial Hebrew reference"

// guard is a context condition checked outside the regular expression,
// since RE2 has no lookaround and its \b is ASCII-only.
type guard int

const (
	guardNone guard = iota
	// guardWord is a Unicode word boundary between the match edge and the
	// neighbouring character.
	guardWord
	// guardSpace requires start of text or whitespace before the match.
	guardSpace
	// guardStop requires end of text, whitespace or . , ; : after the match.
	guardStop
)

type editorialPattern struct {
	re          *regexp.Regexp
	kind        cleaner.Kind
	lead, trail guard
}

func ep(kind cleaner.Kind, lead, trail guard, expr string) editorialPattern {
	return editorialPattern{re: regexp.MustCompile("(?i)" + expr), kind: kind, lead: lead, trail: trail}
}

// editorialPatterns match editorial vocabulary, not spoken Hebrew such as
// pesukim or religious terms.
var editorialPatterns = []editorialPattern{
	// see above / below / there
	ep(cleaner.KindCrossReference, guardWord, guardNone, `ראה\s+(?:לעיל|לקמן|שם|הנ"ל|כנ"ל)`),
	ep(cleaner.KindCrossReference, guardWord, guardNone, `עיי?ן\s+(?:לעיל|לקמן|שם|הנ"ל|כנ"ל|ב[א-ת]+)`),
	ep(cleaner.KindCrossReference, guardWord, guardNone, `עי['׳]\s+[א-ת]+`),

	ep(cleaner.KindPositionMarker, guardWord, guardNone, `לעיל\s+(?:סעיף|אות|פרק|סי['׳]|סימן)`),
	ep(cleaner.KindPositionMarker, guardWord, guardNone, `לקמן\s+(?:סעיף|אות|פרק|סי['׳]|סימן)`),
	ep(cleaner.KindPositionMarker, guardWord, guardWord, `כנ"ל`),
	ep(cleaner.KindPositionMarker, guardWord, guardWord, `הנ"ל`),
	ep(cleaner.KindPositionMarker, guardWord, guardWord, `נ"ל`),
	ep(cleaner.KindPositionMarker, guardWord, guardWord, `וכנ"ל`),
	ep(cleaner.KindPositionMarker, guardWord, guardWord, `כדלעיל`),
	ep(cleaner.KindPositionMarker, guardWord, guardWord, `כדלקמן`),
	// ibid
	ep(cleaner.KindPositionMarker, guardSpace, guardStop, `שם`),

	ep(cleaner.KindCitation, guardWord, guardNone, `דף\s+[א-ת]{1,3}[',׳]?\s*[עב]?[',׳]?(?:\s*[-–]\s*[א-ת]{1,3}[',׳]?\s*[עב]?[',׳]?)?`),
	ep(cleaner.KindCitation, guardWord, guardNone, `עמ?[',׳]\s*\d+`),
	ep(cleaner.KindCitation, guardWord, guardNone, `ע['׳]\s*\d+`),
	ep(cleaner.KindCitation, guardWord, guardNone, `פרק\s+[א-ת]{1,3}`),
	ep(cleaner.KindCitation, guardWord, guardNone, `סעיף\s+[א-ת]{1,3}`),
	ep(cleaner.KindCitation, guardWord, guardNone, `סי['׳]מן?\s+[א-ת]{1,3}`),
	ep(cleaner.KindCitation, guardWord, guardNone, `אות\s+[א-ת]{1,3}`),
	ep(cleaner.KindCitation, guardWord, guardNone, `הלכה\s+[א-ת]{1,3}`),
	ep(cleaner.KindCitation, guardWord, guardNone, `משנה\s+[א-ת]{1,3}`),

	ep(cleaner.KindEditorNote, guardWord, guardWord, `הערה`),
	ep(cleaner.KindEditorNote, guardWord, guardWord, `הע['׳]`),
	ep(cleaner.KindEditorNote, guardWord, guardNone, `הערת\s+(?:המתקן|המעתיק|העורך|המהדיר)`),
	ep(cleaner.KindEditorNote, guardWord, guardNone, `הוספת\s+(?:המתקן|המעתיק|העורך)`),
	ep(cleaner.KindEditorNote, guardWord, guardNone, `תיקון\s+(?:המעתיק|העורך)`),

	ep(cleaner.KindEditorNote, guardNone, guardNone, `\(המשך\)`),
	ep(cleaner.KindEditorNote, guardNone, guardNone, `\(סיום\)`),
	ep(cleaner.KindCrossReference, guardNone, guardNone, `\(ראה\s+[^)]+\)`),
	ep(cleaner.KindCrossReference, guardNone, guardNone, `\(עיין\s+[^)]+\)`),
	ep(cleaner.KindPositionMarker, guardNone, guardNone, `\(שם\)`),
	ep(cleaner.KindPositionMarker, guardNone, guardNone, `\(הנ"ל\)`),
	ep(cleaner.KindPositionMarker, guardNone, guardNone, `\(כנ"ל\)`),

	// (book chapter, verse)
	ep(cleaner.KindCitation, guardNone, guardNone, `\([א-ת]+\s+[א-ת]{1,3}[',׳]?\s*[,:]?\s*[א-ת]{1,3}\)`),
	ep(cleaner.KindCitation, guardNone, guardNone, `\([א-ת]+\s+\d+\s*[,:]\s*\d+\)`),
}

var editorialLabels = map[cleaner.Kind]string{
	cleaner.KindCrossReference: "Editorial Hebrew cross-references",
	cleaner.KindPositionMarker: "Editorial Hebrew position markers",
	cleaner.KindCitation:       "Editorial Hebrew citations",
	cleaner.KindEditorNote:     "Editorial Hebrew editor notes",
	cleaner.KindNone:           "Editorial Hebrew references",
}

var editorialKindOrder = []cleaner.Kind{
	cleaner.KindCrossReference,
	cleaner.KindPositionMarker,
	cleaner.KindCitation,
	cleaner.KindEditorNote,
	cleaner.KindNone,
}

// EditorialHebrewArgs configures EditorialHebrew.
type EditorialHebrewArgs struct {
	AdditionalPatterns []string `json:"additional_patterns" yaml:"additional_patterns" mapstructure:"additional_patterns"`
	ExceptionPatterns  []string `json:"exception_patterns" yaml:"exception_patterns" mapstructure:"exception_patterns"`
}

// DefaultEditorialHebrewArgs returns the standard exception list.
func DefaultEditorialHebrewArgs() EditorialHebrewArgs {
	return EditorialHebrewArgs{ExceptionPatterns: clonePatterns(DefaultExceptionPatterns)}
}

// EditorialHebrew removes editorial Hebrew (citations, cross-references,
// position markers, editor notes) while keeping spoken Hebrew.
type EditorialHebrew struct {
	patterns   []editorialPattern
	exceptions *pattern.Matcher
}

// NewEditorialHebrew creates the processor. Additional patterns are
// appended to the built-in list and their matches are unclassified.
func NewEditorialHebrew(args EditorialHebrewArgs) (*EditorialHebrew, error) {
	exceptions, err := pattern.Compile(args.ExceptionPatterns)
	if err != nil {
		return nil, err
	}
	extra, err := pattern.Compile(args.AdditionalPatterns)
	if err != nil {
		return nil, err
	}
	patterns := make([]editorialPattern, len(editorialPatterns), len(editorialPatterns)+extra.Len())
	copy(patterns, editorialPatterns)
	for _, re := range extra.Regexps() {
		patterns = append(patterns, editorialPattern{re: re})
	}
	return &EditorialHebrew{patterns: patterns, exceptions: exceptions}, nil
}

func (p *EditorialHebrew) Name() string { return "editorial_hebrew" }

func (p *EditorialHebrew) Description() string {
	return "Removes editorial Hebrew (citations, references, cross-refs) while keeping spoken Hebrew"
}

// span is one accepted match, in byte offsets of the scanned text.
type span struct {
	start, end int
	kind       cleaner.Kind
}

func (p *EditorialHebrew) Process(text string, doc *document.Document) (string, []cleaner.Removal, error) {
	recs := make(map[cleaner.Kind]*cleaner.Collector, len(editorialLabels))
	for kind, label := range editorialLabels {
		recs[kind] = cleaner.NewCollector(p.Name(), cleaner.CategoryEditorial, kind, label, false)
	}

	clean := func(s string, offset int) string {
		spans := p.find(s)
		for _, sp := range spans {
			recs[sp.kind].AddPosition(cleaner.Position{
				Start:  offset + utf8.RuneCountInString(s[:sp.start]),
				End:    offset + utf8.RuneCountInString(s[:sp.end]),
				Text:   s[sp.start:sp.end],
				Reason: EditorialReason,
			})
		}
		return removeSpans(s, spans)
	}

	if doc != nil {
		for _, para := range doc.Kept() {
			para.SetText(clean(para.Text, para.StartPos))
		}
		text = doc.Text()
	} else {
		text = clean(text, 0)
	}

	var removed []cleaner.Removal
	for _, kind := range editorialKindOrder {
		if r, ok := recs[kind].Result(); ok {
			removed = append(removed, r)
		}
	}
	return text, removed, nil
}

// find returns non-overlapping editorial matches in s, ordered by start.
// Where matches overlap the earliest, then longest, wins.
func (p *EditorialHebrew) find(s string) []span {
	var all []span
	for _, pat := range p.patterns {
		for _, loc := range pat.re.FindAllStringIndex(s, -1) {
			if loc[0] == loc[1] {
				continue
			}
			if !checkLead(s, loc[0], pat.lead) || !checkTrail(s, loc[1], pat.trail) {
				continue
			}
			if p.exceptions.MatchAny(s[loc[0]:loc[1]]) {
				continue
			}
			all = append(all, span{start: loc[0], end: loc[1], kind: pat.kind})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end > all[j].end
	})

	out := all[:0]
	lastEnd := -1
	for _, sp := range all {
		if sp.start < lastEnd {
			continue
		}
		out = append(out, sp)
		lastEnd = sp.end
	}
	return out
}

// removeSpans deletes spans from s back to front. Where text remains on
// both sides the gap is trimmed and a single space is kept between words,
// none next to punctuation.
func removeSpans(s string, spans []span) string {
	for i := len(spans) - 1; i >= 0; i-- {
		before, after := s[:spans[i].start], s[spans[i].end:]
		if before == "" || after == "" {
			s = before + after
			continue
		}
		before = strings.TrimRightFunc(before, unicode.IsSpace)
		after = strings.TrimLeftFunc(after, unicode.IsSpace)
		if before != "" && after != "" && !isStitchPunct(lastRune(before)) && !isStitchPunct(firstRune(after)) {
			s = before + " " + after
		} else {
			s = before + after
		}
	}
	return s
}

func isStitchPunct(r rune) bool { return strings.ContainsRune(".,;:!?", r) }

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// wordBoundary reports whether byte offset i in s sits between a word and a
// non-word character.
func wordBoundary(s string, i int) bool {
	before := i > 0 && isWordRune(lastRune(s[:i]))
	after := i < len(s) && isWordRune(firstRune(s[i:]))
	return before != after
}

func checkLead(s string, start int, g guard) bool {
	switch g {
	case guardWord:
		return wordBoundary(s, start)
	case guardSpace:
		return start == 0 || unicode.IsSpace(lastRune(s[:start]))
	}
	return true
}

func checkTrail(s string, end int, g guard) bool {
	switch g {
	case guardWord:
		return wordBoundary(s, end)
	case guardStop:
		if end == len(s) {
			return true
		}
		r := firstRune(s[end:])
		return unicode.IsSpace(r) || strings.ContainsRune(".,;:", r)
	}
	return true
}
