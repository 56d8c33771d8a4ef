package document

import "testing"

func ptr[T any](v T) *T { return &v }

func TestNew_Enrichment(t *testing.T) {
	paras := []*Paragraph{
		{Text: "Chapter One", StyleName: "Heading 1"},
		{Text: "A Title Line", StyleName: "Title"},
		{Text: "plain body text here", StyleName: "Normal"},
	}
	d := New(paras)

	if !d.Paragraphs[0].IsHeadingStyle || !d.Paragraphs[1].IsHeadingStyle {
		t.Error("heading or title style not detected")
	}
	if d.Paragraphs[2].IsHeadingStyle {
		t.Error("Normal style detected as heading")
	}
	if d.Paragraphs[2].WordCount != 4 {
		t.Errorf("WordCount = %d, want 4", d.Paragraphs[2].WordCount)
	}
	if d.Paragraphs[0].OriginalText != "Chapter One" {
		t.Errorf("OriginalText = %q", d.Paragraphs[0].OriginalText)
	}
	if d.AverageFontSize != DefaultFontSize {
		t.Errorf("AverageFontSize = %v, want %v", d.AverageFontSize, DefaultFontSize)
	}
}

func TestNew_Positions(t *testing.T) {
	d := New([]*Paragraph{{Text: "אב"}, {Text: "abc"}, {Text: "d"}})

	want := [][2]int{{0, 2}, {3, 6}, {7, 8}}
	for i, p := range d.Paragraphs {
		if p.StartPos != want[i][0] || p.EndPos != want[i][1] {
			t.Errorf("paragraph %d positions = (%d,%d), want %v", i, p.StartPos, p.EndPos, want[i])
		}
		if p.EndPos-p.StartPos != p.CharCount {
			t.Errorf("paragraph %d span %d != char count %d", i, p.EndPos-p.StartPos, p.CharCount)
		}
	}
}

func TestNew_BoldAndFontFromRuns(t *testing.T) {
	paras := []*Paragraph{
		{Text: "bold heading", Runs: []Run{
			{Text: "bold ", Style: RunStyle{Bold: ptr(true), FontSize: ptr(24.0)}},
			{Text: "heading", Style: RunStyle{Bold: ptr(true)}},
		}},
		{Text: "mixed text", Runs: []Run{
			{Text: "mixed ", Style: RunStyle{Bold: ptr(true)}},
			{Text: "text", Style: RunStyle{FontSize: ptr(12.0)}},
		}},
		{Text: "normal", FontSize: ptr(12.0)},
	}
	d := New(paras)

	if !d.Paragraphs[0].IsBold {
		t.Error("all-bold runs not detected as bold")
	}
	if d.Paragraphs[1].IsBold {
		t.Error("mixed runs detected as bold")
	}
	if d.Paragraphs[0].FontSize == nil || *d.Paragraphs[0].FontSize != 24 {
		t.Errorf("FontSize = %v, want 24", d.Paragraphs[0].FontSize)
	}
	if d.AverageFontSize != 16 {
		t.Errorf("AverageFontSize = %v, want 16", d.AverageFontSize)
	}
	if !d.Paragraphs[0].IsLargerThanNormal {
		t.Error("24pt paragraph not larger than normal")
	}
	if d.Paragraphs[2].IsLargerThanNormal {
		t.Error("12pt paragraph flagged larger than normal")
	}
}

func TestNew_KeepsFlagsWithoutFontSizes(t *testing.T) {
	d := New([]*Paragraph{{Text: "big", IsLargerThanNormal: true}})
	if !d.Paragraphs[0].IsLargerThanNormal {
		t.Error("input flag overwritten without font information")
	}
}

func TestNew_DropsBlankParagraphs(t *testing.T) {
	d := New([]*Paragraph{{Text: "first"}, {Text: "  \t"}, {Text: ""}, {Text: "second"}})
	if d.ParagraphCount() != 2 {
		t.Fatalf("ParagraphCount() = %d, want 2", d.ParagraphCount())
	}
	original := []rune(d.OriginalText())
	for _, p := range d.Paragraphs {
		if got := string(original[p.StartPos:p.EndPos]); got != p.OriginalText {
			t.Errorf("original[%d:%d] = %q, want %q", p.StartPos, p.EndPos, got, p.OriginalText)
		}
	}
}

func TestNew_CountsFollowOriginalText(t *testing.T) {
	d := New([]*Paragraph{
		{Text: "short", OriginalText: "much longer original"},
		{Text: "next"},
	})
	p := d.Paragraphs[0]
	if p.EndPos-p.StartPos != p.CharCount {
		t.Errorf("span %d != char count %d", p.EndPos-p.StartPos, p.CharCount)
	}
	if p.WordCount != 3 {
		t.Errorf("WordCount = %d, want 3", p.WordCount)
	}
	if d.Paragraphs[1].StartPos != p.CharCount+1 {
		t.Errorf("second StartPos = %d, want %d", d.Paragraphs[1].StartPos, p.CharCount+1)
	}
}

func TestNew_KeepsFlagWhenSizeMissing(t *testing.T) {
	d := New([]*Paragraph{
		{Text: "sized", FontSize: ptr(12.0), IsLargerThanNormal: true},
		{Text: "unsized", IsLargerThanNormal: true},
	})
	if d.Paragraphs[0].IsLargerThanNormal {
		t.Error("sized paragraph flag not recomputed")
	}
	if !d.Paragraphs[1].IsLargerThanNormal {
		t.Error("unsized paragraph flag overwritten")
	}
}

func TestDocument_Text(t *testing.T) {
	d := FromText("first\n\n  \nsecond\nthird")
	if d.ParagraphCount() != 3 {
		t.Fatalf("ParagraphCount() = %d, want 3", d.ParagraphCount())
	}

	d.Paragraphs[1].Remove("test")
	if got := d.Text(); got != "first\nthird" {
		t.Errorf("Text() = %q, want %q", got, "first\nthird")
	}
	if got := d.OriginalText(); got != "first\nsecond\nthird" {
		t.Errorf("OriginalText() = %q", got)
	}
	if len(d.Kept()) != 2 {
		t.Errorf("Kept() = %d paragraphs, want 2", len(d.Kept()))
	}

	d.Paragraphs[0].SetText("   ")
	if got := d.Text(); got != "third" {
		t.Errorf("Text() after blanking = %q, want %q", got, "third")
	}
}

func TestDocument_Totals(t *testing.T) {
	d := FromText("one two\nthree")
	if d.TotalWords() != 3 {
		t.Errorf("TotalWords() = %d, want 3", d.TotalWords())
	}
	if d.TotalChars() != 12 {
		t.Errorf("TotalChars() = %d, want 12", d.TotalChars())
	}
	if d.IsEmpty() {
		t.Error("IsEmpty() = true")
	}
	if !New(nil).IsEmpty() {
		t.Error("empty document not empty")
	}
}

func TestParagraph_SetTextCollapsesRuns(t *testing.T) {
	p := &Paragraph{Text: "ab", Runs: []Run{
		{Text: "a", Style: RunStyle{Italic: ptr(true)}},
		{Text: "b"},
	}}
	p.SetText("c")
	if len(p.Runs) != 1 || p.Runs[0].Text != "c" || p.Runs[0].Style.Italic == nil {
		t.Errorf("Runs = %+v", p.Runs)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"שלום עליכם", 4, "שלום"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestDocument_LargerThanNormal(t *testing.T) {
	d := New([]*Paragraph{
		{Text: "a", FontSize: ptr(10.0)},
		{Text: "b", FontSize: ptr(14.0)},
	})
	if !d.LargerThanNormal(d.Paragraphs[1], 1.1) {
		t.Error("14pt not larger than 12*1.1")
	}
	if d.LargerThanNormal(d.Paragraphs[1], 1.2) {
		t.Error("14pt larger than 12*1.2")
	}
}
