package processors

import (
	"errors"
	"strings"
	"testing"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/pattern"
)

func mustProcess(t *testing.T, p cleaner.Processor, text string, doc *document.Document) (string, []cleaner.Removal) {
	t.Helper()
	out, removed, err := p.Process(text, doc)
	if err != nil {
		t.Fatalf("%s.Process() error = %v", p.Name(), err)
	}
	return out, removed
}

func findRecord(removed []cleaner.Removal, label string) (cleaner.Removal, bool) {
	for _, r := range removed {
		if r.Pattern == label {
			return r, true
		}
	}
	return cleaner.Removal{}, false
}

// --- SpecialChars ---

func TestSpecialChars(t *testing.T) {
	p := NewSpecialChars(SpecialCharsArgs{})
	got, removed := mustProcess(t, p, "a\u200bb\u200bc\ufeff", nil)

	if got != "abc" {
		t.Errorf("Process() = %q, want %q", got, "abc")
	}
	if len(removed) != 2 {
		t.Fatalf("len(removed) = %d, want 2", len(removed))
	}
	zwsp, ok := findRecord(removed, "Special character (unicode 200b)")
	if !ok {
		t.Fatalf("no zero-width space record in %+v", removed)
	}
	if zwsp.Count != 2 || len(zwsp.Matches) != 2 || zwsp.Matches[0] != "U+200B" {
		t.Errorf("record = %+v", zwsp)
	}
	if zwsp.Category != cleaner.CategorySpecialChars {
		t.Errorf("Category = %v", zwsp.Category)
	}
}

func TestSpecialChars_CapsSamples(t *testing.T) {
	p := NewSpecialChars(SpecialCharsArgs{})
	doc := document.FromText(strings.Repeat("\u200f", 25) + "שלום")
	got, removed := mustProcess(t, p, doc.Text(), doc)

	if got != "שלום" {
		t.Errorf("Process() = %q", got)
	}
	if len(removed) != 1 || removed[0].Count != 25 || len(removed[0].Matches) != cleaner.MaxMatches {
		t.Errorf("removed = %+v", removed)
	}
}

// --- Whitespace ---

func TestWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapse", "a   b", "a b"},
		{"around_newlines", "a \n  b", "a\nb"},
		{"trim", "  a b  ", "a b"},
		{"keeps_blank_lines", "a\n\nb", "a\n\nb"},
		{"empty", "", ""},
		{"hebrew", "גוט  שבת \n  אלעמען", "גוט שבת\nאלעמען"},
	}

	p := NewWhitespace()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, removed := mustProcess(t, p, tt.input, nil)
			if got != tt.want {
				t.Errorf("Process() = %q, want %q", got, tt.want)
			}
			if len(removed) != 0 {
				t.Errorf("Whitespace emitted records: %+v", removed)
			}
			again, _ := mustProcess(t, p, got, nil)
			if again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

// --- SeifMarker ---

func TestSeifMarker_Document(t *testing.T) {
	doc := document.FromText("א. וידבר משה\nאי. not a numeral\nיא*. עלף")
	got, removed := mustProcess(t, NewSeifMarker(), doc.Text(), doc)

	want := "וידבר משה\nאי. not a numeral\nעלף"
	if got != want {
		t.Errorf("Process() = %q, want %q", got, want)
	}
	if len(removed) != 1 {
		t.Fatalf("len(removed) = %d, want 1", len(removed))
	}
	r := removed[0]
	if r.Pattern != SeifMarkerLabel || r.Count != 2 || len(r.Positions) != 2 {
		t.Fatalf("record = %+v", r)
	}
	if pos := r.Positions[0]; pos.Start != 0 || pos.End != 3 || pos.Text != "א." {
		t.Errorf("first position = %+v", pos)
	}
	third := doc.Paragraphs[2]
	if pos := r.Positions[1]; pos.Start != third.StartPos || pos.Text != "יא*." {
		t.Errorf("second position = %+v", pos)
	}
}

func TestSeifMarker_SingleParagraph(t *testing.T) {
	doc := document.New([]*document.Paragraph{document.NewParagraph("א. וידבר משה")})
	got, removed := mustProcess(t, NewSeifMarker(), doc.Text(), doc)
	if got != "וידבר משה" {
		t.Errorf("Process() = %q", got)
	}
	if len(removed) != 1 || len(removed[0].Positions) != 1 {
		t.Errorf("removed = %+v", removed)
	}
}

func TestSeifMarker_RawText(t *testing.T) {
	got, removed := mustProcess(t, NewSeifMarker(), "abc\nיב. טעקסט", nil)
	if got != "abc\nטעקסט" {
		t.Errorf("Process() = %q", got)
	}
	if len(removed) != 1 || removed[0].Positions[0].Start != 4 || removed[0].Positions[0].End != 8 {
		t.Errorf("removed = %+v", removed)
	}
}

// --- TitleStyle ---

func titleDoc() *document.Document {
	return document.New([]*document.Paragraph{
		{Text: "פרק ראשון", StyleName: "Heading 1"},
		{Text: "קורץ"},
		{Text: "דאס איז א לאנגע פאראגראף מיט אסאך ווערטער"},
	})
}

func TestTitleStyle_Scenario(t *testing.T) {
	p, err := NewTitleStyle(DefaultTitleStyleArgs())
	if err != nil {
		t.Fatalf("NewTitleStyle() error = %v", err)
	}
	doc := titleDoc()
	got, removed := mustProcess(t, p, doc.Text(), doc)

	if got != "דאס איז א לאנגע פאראגראף מיט אסאך ווערטער" {
		t.Errorf("Process() = %q", got)
	}
	if len(removed) != 2 {
		t.Fatalf("len(removed) = %d, want 2: %+v", len(removed), removed)
	}

	heading, ok := findRecord(removed, HeadingStyleLabel)
	if !ok || heading.Count != 1 || heading.Kind != cleaner.KindHeadingStyle {
		t.Errorf("heading record = %+v", heading)
	}
	if !heading.HasSignal(cleaner.SignalHeadingStyle) || !heading.HasSignal(cleaner.SignalShort) {
		t.Errorf("heading signals = %v", heading.Signals)
	}

	short, ok := findRecord(removed, "Short paragraphs (< 5 words)")
	if !ok || short.Count != 1 {
		t.Errorf("short record = %+v", short)
	}
	if short.HasSignal(cleaner.SignalHeadingStyle) {
		t.Errorf("short signals = %v", short.Signals)
	}
	if !doc.Paragraphs[0].Removed || doc.Paragraphs[0].RemovedBy != "title_style" {
		t.Error("heading paragraph not marked removed")
	}
}

func TestTitleStyle_Rules(t *testing.T) {
	long := "דאס איז א לאנגע פאראגראף מיט אסאך ווערטער"
	tests := []struct {
		name      string
		para      *document.Paragraph
		wantKept  bool
		wantLabel string
	}{
		{"force_beats_exception", &document.Paragraph{Text: `בס"ד לחיים`}, false, ForceRemoveLabel},
		{"exception_keeps_short", &document.Paragraph{Text: "לחיים"}, true, ""},
		{"exception_keeps_heading", &document.Paragraph{Text: "לחיים", StyleName: "Title"}, true, ""},
		{"long_plain_kept", &document.Paragraph{Text: long}, true, ""},
		{"large_font", &document.Paragraph{Text: long, IsLargerThanNormal: true}, false, LargeFontLabel},
		{"bold_short", &document.Paragraph{Text: long, IsBold: true}, false, "Bold short paragraphs (< 15 words)"},
		{"bold_long_kept", &document.Paragraph{Text: strings.Repeat("ווארט ", 16), IsBold: true}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewTitleStyle(DefaultTitleStyleArgs())
			if err != nil {
				t.Fatalf("NewTitleStyle() error = %v", err)
			}
			doc := document.New([]*document.Paragraph{tt.para})
			got, removed := mustProcess(t, p, doc.Text(), doc)

			if kept := got != ""; kept != tt.wantKept {
				t.Errorf("kept = %v, want %v (text %q)", kept, tt.wantKept, got)
			}
			if tt.wantLabel == "" {
				if len(removed) != 0 {
					t.Errorf("unexpected records: %+v", removed)
				}
				return
			}
			if _, ok := findRecord(removed, tt.wantLabel); !ok {
				t.Errorf("no %q record in %+v", tt.wantLabel, removed)
			}
		})
	}
}

func TestTitleStyle_ForceRecordCategory(t *testing.T) {
	p, _ := NewTitleStyle(DefaultTitleStyleArgs())
	doc := document.FromText(`בס"ד`)
	_, removed := mustProcess(t, p, doc.Text(), doc)
	if len(removed) != 1 || removed[0].Category != cleaner.CategoryForceRemove {
		t.Errorf("removed = %+v", removed)
	}
}

func TestTitleStyle_NoDocument(t *testing.T) {
	p, _ := NewTitleStyle(DefaultTitleStyleArgs())
	got, removed := mustProcess(t, p, "x", nil)
	if got != "x" || removed != nil {
		t.Errorf("Process() = %q, %v", got, removed)
	}
}

func TestTitleStyle_PreviewTruncated(t *testing.T) {
	p, _ := NewTitleStyle(DefaultTitleStyleArgs())
	doc := document.New([]*document.Paragraph{{Text: strings.Repeat("א", 150), StyleName: "Heading 2"}})
	_, removed := mustProcess(t, p, doc.Text(), doc)
	if n := len([]rune(removed[0].Positions[0].Text)); n != 100 {
		t.Errorf("position text length = %d, want 100", n)
	}
}

// --- BracketsInline ---

func TestBracketsInline(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantCount int
	}{
		{"inline", "Some text [note] more text", "Some text  more text", 1},
		{"full_paragraph_kept", "[This entire paragraph is in brackets]", "[This entire paragraph is in brackets]", 0},
		{"two_pairs_removed", "[a] and [b]", " and ", 2},
		{"exception_kept", "ער זאגט [לחיים] צו אלעמען", "ער זאגט [לחיים] צו אלעמען", 0},
		{"duplicates_counted", "x [n] y [n] z", "x  y  z", 2},
	}

	p, err := NewBracketsInline(DefaultExceptionArgs())
	if err != nil {
		t.Fatalf("NewBracketsInline() error = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, removed := mustProcess(t, p, tt.input, nil)
			if got != tt.want {
				t.Errorf("Process() = %q, want %q", got, tt.want)
			}
			count := 0
			if len(removed) > 0 {
				count = removed[0].Count
			}
			if count != tt.wantCount {
				t.Errorf("count = %d, want %d", count, tt.wantCount)
			}
		})
	}
}

func TestBracketsInline_Document(t *testing.T) {
	p, _ := NewBracketsInline(DefaultExceptionArgs())
	doc := document.FromText("[full paragraph]\nSome text [note] more text\nagain [note]")
	got, removed := mustProcess(t, p, doc.Text(), doc)

	if got != "[full paragraph]\nSome text  more text\nagain " {
		t.Errorf("Process() = %q", got)
	}
	if len(removed) != 1 || removed[0].Count != 2 || len(removed[0].Matches) != 1 {
		t.Errorf("removed = %+v", removed)
	}
	if removed[0].Kind != cleaner.KindInline {
		t.Errorf("Kind = %q", removed[0].Kind)
	}
}

func TestIsFullParagraphBracket(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"[whole]", true},
		{"  [whole]  ", true},
		{"[outer [inner] text]", true},
		{"[a] and [b]", false},
		{"text [a]", false},
		{"[unbalanced", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsFullParagraphBracket(tt.in); got != tt.want {
			t.Errorf("IsFullParagraphBracket(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// --- ParenthesesNotes ---

func TestParenthesesNotes_Default(t *testing.T) {
	p, err := NewParenthesesNotes(DefaultParenthesesNotesArgs())
	if err != nil {
		t.Fatalf("NewParenthesesNotes() error = %v", err)
	}
	got, removed := mustProcess(t, p, "ער זאגט (צוחק) אז (א טייטש) איז (תהלים כג, א) גוט", nil)

	if got != "ער זאגט  אז (א טייטש) איז  גוט" {
		t.Errorf("Process() = %q", got)
	}
	stage, ok := findRecord(removed, "Parenthetical stage directions")
	if !ok || stage.Kind != cleaner.KindStageDirection || stage.Count != 1 {
		t.Errorf("stage record = %+v", stage)
	}
	cite, ok := findRecord(removed, "Parenthetical citations")
	if !ok || cite.Kind != cleaner.KindCitation {
		t.Errorf("citation record = %+v", cite)
	}
}

func TestParenthesesNotes_RemoveAll(t *testing.T) {
	p, _ := NewParenthesesNotes(ParenthesesNotesArgs{RemoveAll: true, ExceptionPatterns: DefaultExceptionPatterns})
	got, removed := mustProcess(t, p, "a (aside) b (לחיים) c", nil)

	if got != "a  b (לחיים) c" {
		t.Errorf("Process() = %q", got)
	}
	if len(removed) != 1 || removed[0].Kind != cleaner.KindNone || removed[0].Pattern != "Parenthetical non-speech notes" {
		t.Errorf("removed = %+v", removed)
	}
}

func TestParenthesesNotes_CustomPatterns(t *testing.T) {
	p, err := NewParenthesesNotes(ParenthesesNotesArgs{NonSpeechPatterns: []string{`\(note\)`}})
	if err != nil {
		t.Fatalf("NewParenthesesNotes() error = %v", err)
	}
	got, _ := mustProcess(t, p, "a (NOTE) b (צוחק)", nil)
	if got != "a  b (צוחק)" {
		t.Errorf("Process() = %q", got)
	}

	if _, err := NewParenthesesNotes(ParenthesesNotesArgs{NonSpeechPatterns: []string{`(`}}); !errors.Is(err, pattern.ErrInvalidPattern) {
		t.Errorf("error = %v, want ErrInvalidPattern", err)
	}
}

// --- EditorialHebrew ---

func TestEditorialHebrew(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		wantKind cleaner.Kind
	}{
		{"cross_reference_before_comma", "ער האט געזאגט ראה לעיל, און", "ער האט געזאגט, און", cleaner.KindCrossReference},
		{"aforementioned", `דער רבי הנ"ל האט`, "דער רבי האט", cleaner.KindPositionMarker},
		{"ibid_standalone", "ער איז שם געווען", "ער איז געווען", cleaner.KindPositionMarker},
		{"chapter_citation", "ווי עס שטייט פרק ג אין ספר", "ווי עס שטייט אין ספר", cleaner.KindCitation},
		{"editor_note", "הערת המעתיק: טעקסט", ": טעקסט", cleaner.KindEditorNote},
		{"paren_citation", "זאגט (בראשית 1:1) אזוי", "זאגט אזוי", cleaner.KindCitation},
	}

	p, err := NewEditorialHebrew(DefaultEditorialHebrewArgs())
	if err != nil {
		t.Fatalf("NewEditorialHebrew() error = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, removed := mustProcess(t, p, tt.input, nil)
			if got != tt.want {
				t.Errorf("Process() = %q, want %q", got, tt.want)
			}
			if len(removed) != 1 || removed[0].Kind != tt.wantKind {
				t.Errorf("removed = %+v, want one %q record", removed, tt.wantKind)
			}
		})
	}
}

func TestEditorialHebrew_KeepsSpokenHebrew(t *testing.T) {
	p, _ := NewEditorialHebrew(DefaultEditorialHebrewArgs())
	for _, in := range []string{
		"שמואל האט געזאגט",
		"בראשית ברא אלקים",
		"מצוה גוררת מצוה",
	} {
		got, removed := mustProcess(t, p, in, nil)
		if got != in || len(removed) != 0 {
			t.Errorf("Process(%q) = %q, %+v", in, got, removed)
		}
	}
}

func TestEditorialHebrew_PositionsAndOverlap(t *testing.T) {
	p, _ := NewEditorialHebrew(DefaultEditorialHebrewArgs())
	doc := document.FromText("ערשטע שורה\nזע (ראה לעיל) דא")
	got, removed := mustProcess(t, p, doc.Text(), doc)

	if got != "ערשטע שורה\nזע דא" {
		t.Errorf("Process() = %q", got)
	}
	total := 0
	for _, r := range removed {
		total += r.Count
	}
	if total != 1 {
		t.Fatalf("overlapping matches counted %d times: %+v", total, removed)
	}
	pos := removed[0].Positions[0]
	if pos.Start != 14 || pos.Text != "(ראה לעיל)" || pos.Reason != EditorialReason {
		t.Errorf("position = %+v", pos)
	}
}

func TestEditorialHebrew_AdditionalAndExceptions(t *testing.T) {
	p, err := NewEditorialHebrew(EditorialHebrewArgs{
		AdditionalPatterns: []string{`\[עריכה\]`},
		ExceptionPatterns:  []string{`כנ"ל`},
	})
	if err != nil {
		t.Fatalf("NewEditorialHebrew() error = %v", err)
	}
	got, removed := mustProcess(t, p, `טעקסט [עריכה] מער כנ"ל`, nil)
	if got != `טעקסט מער כנ"ל` {
		t.Errorf("Process() = %q", got)
	}
	if len(removed) != 1 || removed[0].Kind != cleaner.KindNone {
		t.Errorf("removed = %+v", removed)
	}
}

// --- ForceRemove ---

func TestForceRemove(t *testing.T) {
	p, err := NewForceRemove(DefaultForceRemoveArgs())
	if err != nil {
		t.Fatalf("NewForceRemove() error = %v", err)
	}

	got, removed := mustProcess(t, p, "בס\"ד\nגוט\n\nכ\"ק אד\"ש צוה צו זאגן", nil)
	if got != "גוט\n" {
		t.Errorf("raw Process() = %q", got)
	}
	if len(removed) != 1 || removed[0].Count != 2 || removed[0].Pattern != ForceRemoveLabel {
		t.Errorf("removed = %+v", removed)
	}

	doc := document.FromText("בס\"ד\nגוט")
	got, removed = mustProcess(t, p, doc.Text(), doc)
	if got != "גוט" || len(removed[0].Positions) != 1 {
		t.Errorf("document Process() = %q, %+v", got, removed)
	}
}

// --- Regex ---

func TestRegex(t *testing.T) {
	p, err := NewRegex(RegexArgs{
		Patterns: []LabeledPattern{
			{`\d{1,2}:\d{2}:\d{2}`, "timestamps"},
			{`\n{3,}`, ExcessiveNewlinesLabel},
			{`^speaker \d+:`, "speaker labels"},
		},
		ExceptionPatterns: DefaultExceptionPatterns,
	})
	if err != nil {
		t.Fatalf("NewRegex() error = %v", err)
	}

	got, removed := mustProcess(t, p, "at 10:20:30 we\n\n\n\nSpeaker 1: hi", nil)
	if got != "at  we\n\n hi" {
		t.Errorf("Process() = %q", got)
	}
	if len(removed) != 3 {
		t.Fatalf("len(removed) = %d, want 3", len(removed))
	}
	if removed[0].Pattern != "timestamps" || removed[0].Matches[0] != "10:20:30" {
		t.Errorf("first record = %+v", removed[0])
	}
	if removed[0].Category != cleaner.CategoryRegex {
		t.Errorf("Category = %v", removed[0].Category)
	}
}

func TestRegex_Exceptions(t *testing.T) {
	p, _ := NewRegex(DefaultRegexArgs())
	got, removed := mustProcess(t, p, "a [x] b (לחיים) c", nil)
	if got != "a  b (לחיים) c" {
		t.Errorf("Process() = %q", got)
	}
	for _, r := range removed {
		for _, m := range r.Matches {
			if strings.Contains(m, "לחיים") {
				t.Errorf("exception reported as removed: %+v", r)
			}
		}
	}
}

func TestRegex_InvalidPattern(t *testing.T) {
	_, err := NewRegex(RegexArgs{Patterns: []LabeledPattern{{`[`, "broken"}}})
	if !errors.Is(err, pattern.ErrInvalidPattern) {
		t.Errorf("error = %v, want ErrInvalidPattern", err)
	}
}
