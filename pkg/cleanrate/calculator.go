// Package cleanrate scores how confident the cleaning pipeline can be that
// its removals were non-speech content.
package cleanrate

import (
	"sync"
	"unicode/utf8"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/logger"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

// MaxScore is the score of a cleaning run with no penalized removals.
const MaxScore = 100

// previewLen is how many characters of removed text a Penalty keeps.
const previewLen = 50

// Category names.
const (
	CategoryExcellent    = "excellent"
	CategoryGood         = "good"
	CategoryModerate     = "moderate"
	CategoryLow          = "low"
	CategoryPoor         = "poor"
	CategoryLLMProcessed = "llm-processed"
)

// Penalty is one non-zero deduction.
type Penalty struct {
	Rule        string `json:"rule" yaml:"rule"`
	Penalty     int    `json:"penalty" yaml:"penalty"`
	TextPreview string `json:"text_preview" yaml:"text_preview"`
	Reason      string `json:"reason" yaml:"reason"`
}

// Result is a clean-rate evaluation.
type Result struct {
	Score          int       `json:"score" yaml:"score"`
	TotalPenalty   int       `json:"total_penalty" yaml:"total_penalty"`
	Penalties      []Penalty `json:"penalties" yaml:"penalties"`
	ItemsProcessed int       `json:"items_processed" yaml:"items_processed"`
	ItemsPenalized int       `json:"items_penalized" yaml:"items_penalized"`
	Category       string    `json:"category" yaml:"category"`
	Description    string    `json:"description" yaml:"description"`
}

// LLMProcessed is the result reported for text cleaned by a language model,
// which yields no per-removal records to judge.
func LLMProcessed() Result {
	return Result{
		Score:       MaxScore,
		Penalties:   []Penalty{},
		Category:    CategoryLLMProcessed,
		Description: "Processed by LLM - clean rate not applicable",
	}
}

// Calculator applies an ordered list of rules to removal records. For each
// record the first rule that applies decides the penalty.
type Calculator struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewCalculator returns a calculator using rules in order, or DefaultRules
// when none are given.
func NewCalculator(rules ...Rule) *Calculator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Calculator{rules: append([]Rule(nil), rules...)}
}

// AddRule inserts rule at index priority. A negative priority inserts it
// just before the last rule, which is normally the catch-all fallback.
func (c *Calculator) AddRule(rule Rule, priority int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := priority
	if idx < 0 {
		idx = len(c.rules) - 1
		if idx < 0 {
			idx = 0
		}
	}
	if idx > len(c.rules) {
		idx = len(c.rules)
	}
	c.rules = append(c.rules, nil)
	copy(c.rules[idx+1:], c.rules[idx:])
	c.rules[idx] = rule
}

// RemoveRule removes the first rule with the given name.
func (c *Calculator) RemoveRule(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, r := range c.rules {
		if r.Name() == name {
			c.rules = append(c.rules[:i], c.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Rules describes the configured rules in evaluation order.
func (c *Calculator) Rules() []RuleInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]RuleInfo, 0, len(c.rules))
	for _, r := range c.rules {
		out = append(out, RuleInfo{Name: r.Name(), Description: r.Description(), MaxPenalty: r.MaxPenalty()})
	}
	return out
}

// Calculate scores removed. doc is handed to each rule and stats is only
// logged; both may be nil.
func (c *Calculator) Calculate(removed []cleaner.Removal, stats *cleaner.Statistics, doc *document.Document) Result {
	c.mu.RLock()
	rules := append([]Rule(nil), c.rules...)
	c.mu.RUnlock()

	res := Result{Penalties: []Penalty{}, ItemsProcessed: len(removed)}
	for _, item := range removed {
		rule := firstApplicable(rules, item)
		if rule == nil {
			continue
		}
		p := rule.Penalty(item, doc)
		if p > rule.MaxPenalty() {
			p = rule.MaxPenalty()
		}
		if p <= 0 {
			continue
		}
		res.TotalPenalty += p
		res.Penalties = append(res.Penalties, Penalty{
			Rule:        rule.Name(),
			Penalty:     p,
			TextPreview: preview(item.Sample()),
			Reason:      item.Pattern,
		})
	}

	res.ItemsPenalized = len(res.Penalties)
	res.Score = MaxScore - res.TotalPenalty
	if res.Score < 0 {
		res.Score = 0
	}
	res.Category, res.Description = Categorize(res.Score)

	attrs := []any{
		"score", res.Score,
		"penalty", res.TotalPenalty,
		"items", res.ItemsProcessed,
		"penalized", res.ItemsPenalized,
	}
	if stats != nil {
		attrs = append(attrs, "reduction", stats.ReductionPercentage)
	}
	logger.Debug("clean rate calculated", attrs...)
	return res
}

func firstApplicable(rules []Rule, item cleaner.Removal) Rule {
	for _, r := range rules {
		if r.AppliesTo(item) {
			return r
		}
	}
	return nil
}

// Categorize maps a score to its category and description.
func Categorize(score int) (string, string) {
	switch {
	case score >= 90:
		return CategoryExcellent, "Very high confidence in cleaning accuracy"
	case score >= 75:
		return CategoryGood, "Good confidence in cleaning accuracy"
	case score >= 50:
		return CategoryModerate, "Moderate confidence - review recommended"
	case score >= 25:
		return CategoryLow, "Low confidence - manual review suggested"
	}
	return CategoryPoor, "Very low confidence - significant manual review needed"
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLen {
		return s
	}
	return string([]rune(s)[:previewLen]) + "..."
}
