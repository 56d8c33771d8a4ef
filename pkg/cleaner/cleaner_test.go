package cleaner

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

// upperProcessor uppercases text and reports one removal.
type upperProcessor struct{ name string }

func (p upperProcessor) Name() string        { return p.name }
func (p upperProcessor) Description() string { return "uppercases " + p.name }
func (p upperProcessor) Process(text string, doc *document.Document) (string, []Removal, error) {
	if doc != nil {
		for _, para := range doc.Kept() {
			para.SetText(strings.ToUpper(para.Text))
		}
		return doc.Text(), []Removal{{Processor: p.name, Count: 1}}, nil
	}
	return strings.ToUpper(text), []Removal{{Processor: p.name, Count: 1}}, nil
}

// dropFirst removes the first kept paragraph but returns stale text.
type dropFirst struct{}

func (dropFirst) Name() string        { return "drop_first" }
func (dropFirst) Description() string { return "drops the first paragraph" }
func (dropFirst) Process(text string, doc *document.Document) (string, []Removal, error) {
	if doc != nil && len(doc.Kept()) > 0 {
		doc.Kept()[0].Remove("drop_first")
	}
	return text, nil, nil
}

type failing struct{}

func (failing) Name() string        { return "failing" }
func (failing) Description() string { return "always fails" }
func (failing) Process(string, *document.Document) (string, []Removal, error) {
	return "", nil, errors.New("boom")
}

func TestChain_Empty(t *testing.T) {
	c := NewChain()
	got, removed, err := c.Process("unchanged content", nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got != "unchanged content" || len(removed) != 0 {
		t.Errorf("Process() = %q, %v", got, removed)
	}
	if c.Name() != "chain()" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestChain_OrderAndRecords(t *testing.T) {
	c := NewChain(upperProcessor{"a"}, upperProcessor{"b"})
	got, removed, err := c.Process("hello", nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got != "HELLO" {
		t.Errorf("Process() = %q, want HELLO", got)
	}
	if len(removed) != 2 || removed[0].Processor != "a" || removed[1].Processor != "b" {
		t.Errorf("records out of order: %+v", removed)
	}
	if c.Name() != "chain(a->b)" {
		t.Errorf("Name() = %q", c.Name())
	}
	if c.Len() != 2 || len(c.Processors()) != 2 {
		t.Error("Len/Processors mismatch")
	}
}

func TestChain_RejoinsDocumentText(t *testing.T) {
	doc := document.FromText("first\nsecond")
	c := NewChain(dropFirst{}, upperProcessor{"up"})

	got, _, err := c.Process(doc.Text(), doc)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got != "SECOND" {
		t.Errorf("Process() = %q, want SECOND", got)
	}
}

func TestChain_ErrorStops(t *testing.T) {
	c := NewChain(upperProcessor{"a"}, failing{}, upperProcessor{"b"})
	got, removed, err := c.Process("x", nil)
	if err == nil {
		t.Fatal("Process() error = nil")
	}
	if !strings.Contains(err.Error(), "failing") {
		t.Errorf("error %q does not name the processor", err)
	}
	if got != "" || removed != nil {
		t.Errorf("Process() = %q, %v; want empty result", got, removed)
	}
}

func TestComputeStatistics(t *testing.T) {
	s := ComputeStatistics("one two\nthree four", "one two")
	if s.OriginalChars != 18 || s.CleanedChars != 7 || s.RemovedChars != 11 {
		t.Errorf("chars = %d/%d/%d", s.OriginalChars, s.CleanedChars, s.RemovedChars)
	}
	if s.OriginalLines != 2 || s.CleanedLines != 1 {
		t.Errorf("lines = %d/%d", s.OriginalLines, s.CleanedLines)
	}
	if s.OriginalWords != 4 || s.CleanedWords != 2 {
		t.Errorf("words = %d/%d", s.OriginalWords, s.CleanedWords)
	}
	if s.ReductionPercentage != 61.11 {
		t.Errorf("ReductionPercentage = %v, want 61.11", s.ReductionPercentage)
	}
}

func TestReductionPercentage(t *testing.T) {
	tests := []struct {
		orig, cleaned int
		want          float64
	}{
		{0, 0, 0},
		{100, 100, 0},
		{100, 0, 100},
		{3, 2, 33.33},
		{8, 6, 25},
	}
	for _, tt := range tests {
		if got := ReductionPercentage(tt.orig, tt.cleaned); got != tt.want {
			t.Errorf("ReductionPercentage(%d, %d) = %v, want %v", tt.orig, tt.cleaned, got, tt.want)
		}
	}
}

func TestCollector(t *testing.T) {
	c := NewCollector("brackets_inline", CategoryBracket, KindInline, "Inline bracketed notes", true)
	if _, ok := c.Result(); ok {
		t.Error("empty collector produced a record")
	}
	for i := 0; i < 15; i++ {
		c.Add("[a]")
	}
	for i := 0; i < 12; i++ {
		c.Add(strings.Repeat("x", i+1))
	}

	r, ok := c.Result()
	if !ok {
		t.Fatal("Result() ok = false")
	}
	if r.Count != 27 {
		t.Errorf("Count = %d, want 27", r.Count)
	}
	if len(r.Matches) != MaxMatches {
		t.Errorf("len(Matches) = %d, want %d", len(r.Matches), MaxMatches)
	}
	if r.Matches[0] != "[a]" || r.Matches[1] != "x" {
		t.Errorf("Matches = %v", r.Matches)
	}
}

func TestRemoval_SampleAndSignals(t *testing.T) {
	r := Removal{Positions: []Position{{Text: "heading"}}, Signals: []Signal{SignalBold}}
	if r.Sample() != "heading" {
		t.Errorf("Sample() = %q", r.Sample())
	}
	if !r.HasSignal(SignalBold) || r.HasSignal(SignalShort) {
		t.Error("HasSignal mismatch")
	}
}

func TestCategory_JSON(t *testing.T) {
	b, err := json.Marshal(Removal{Category: CategoryEditorial})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(b), `"category":"editorial"`) {
		t.Errorf("Marshal() = %s", b)
	}

	var r Removal
	if err := json.Unmarshal(b, &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if r.Category != CategoryEditorial {
		t.Errorf("Category = %v", r.Category)
	}

	var c Category
	if err := c.UnmarshalText([]byte("nope")); err == nil {
		t.Error("UnmarshalText accepted an unknown name")
	}
}
