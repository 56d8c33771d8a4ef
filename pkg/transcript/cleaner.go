// Package transcript is the entry point for cleaning transcripts: it
// resolves profiles or processor names into a chain, runs it over a
// document and scores the result.
package transcript

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/logger"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner/processors"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleanrate"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

var (
	// ErrUnknownProfile is returned by Profile for names that are not
	// configured.
	ErrUnknownProfile = errors.New("unknown profile")
	// ErrNoDocument is returned when Process is called without a document.
	ErrNoDocument = errors.New("no document")
)

// Cleaner holds the configured profiles and the clean-rate calculator.
// It is safe for concurrent use as long as each call owns its document.
type Cleaner struct {
	registry       *processors.Registry
	settings       Settings
	calculator     *cleanrate.Calculator
	defaultProfile string

	mu       sync.RWMutex
	profiles map[string]*Profile
	order    []string
	extra    []*Profile
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithRegistry resolves processors from r instead of processors.Default.
func WithRegistry(r *processors.Registry) Option {
	return func(c *Cleaner) { c.registry = r }
}

// WithSettings replaces DefaultSettings for built-in profiles and
// by-name processors.
func WithSettings(s Settings) Option {
	return func(c *Cleaner) { c.settings = s }
}

// WithProfiles adds profiles after the built-in ones. A profile with a
// built-in name replaces it.
func WithProfiles(profiles ...*Profile) Option {
	return func(c *Cleaner) { c.extra = append(c.extra, profiles...) }
}

// WithCalculator sets the clean-rate calculator.
func WithCalculator(calc *cleanrate.Calculator) Option {
	return func(c *Cleaner) { c.calculator = calc }
}

// WithDefaultProfile sets the fallback profile name.
func WithDefaultProfile(name string) Option {
	return func(c *Cleaner) { c.defaultProfile = name }
}

// New creates a Cleaner. It fails when the settings are invalid or the
// default profile does not exist.
func New(opts ...Option) (*Cleaner, error) {
	c := &Cleaner{
		registry:       processors.Default,
		settings:       DefaultSettings(),
		defaultProfile: DefaultProfile,
		profiles:       make(map[string]*Profile),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := validate.Struct(c.settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if c.calculator == nil {
		c.calculator = cleanrate.NewCalculator()
	}

	for _, p := range c.settings.BuiltinProfiles() {
		c.add(p)
	}
	for _, p := range c.extra {
		c.add(p)
	}
	c.extra = nil

	if _, ok := c.profiles[c.defaultProfile]; !ok {
		return nil, fmt.Errorf("default profile: %w: %s", ErrUnknownProfile, c.defaultProfile)
	}
	return c, nil
}

func (c *Cleaner) add(p *Profile) {
	if p.registry == nil {
		p.registry = c.registry
	}
	if _, ok := c.profiles[p.Name]; !ok {
		c.order = append(c.order, p.Name)
	}
	c.profiles[p.Name] = p
}

// AddProfile registers or replaces a profile.
func (c *Cleaner) AddProfile(p *Profile) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(p)
	return nil
}

// Profile returns the named profile.
func (c *Cleaner) Profile(name string) (*Profile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	return p, nil
}

// Profiles lists the configured profiles in registration order.
func (c *Cleaner) Profiles() []ProfileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ProfileInfo, 0, len(c.order))
	for _, name := range c.order {
		p := c.profiles[name]
		out = append(out, ProfileInfo{
			Name:        p.Name,
			Title:       p.Title,
			Description: p.Description,
			Processors:  p.ProcessorNames(),
			Default:     p.Name == c.defaultProfile,
		})
	}
	return out
}

// Processors lists the processors that can be selected by name.
func (c *Cleaner) Processors() []processors.Info {
	return c.registry.Available()
}

// Rules describes the clean-rate rules in evaluation order.
func (c *Cleaner) Rules() []cleanrate.RuleInfo {
	return c.calculator.Rules()
}

// Calculator returns the clean-rate calculator.
func (c *Cleaner) Calculator() *cleanrate.Calculator {
	return c.calculator
}

// CleanText runs the named profile. An empty or unknown name falls back to
// the default profile; the name actually used is returned.
func (c *Cleaner) CleanText(text, profile string, doc *document.Document) (string, []cleaner.Removal, string, error) {
	p, err := c.Profile(profile)
	if err != nil {
		if profile != "" {
			logger.Warn("unknown profile, using default", "profile", profile, "default", c.defaultProfile)
		}
		if p, err = c.Profile(c.defaultProfile); err != nil {
			return "", nil, "", err
		}
	}
	cleaned, removed, err := p.Process(text, doc)
	if err != nil {
		return "", nil, p.Name, err
	}
	return cleaned, removed, p.Name, nil
}

// CleanWithProcessors runs the named processors in order with arguments
// from the settings. Unknown names are skipped; an empty list runs
// DefaultProcessors.
func (c *Cleaner) CleanWithProcessors(text string, names []string, doc *document.Document) (string, []cleaner.Removal, error) {
	chain, err := c.chainFor(names)
	if err != nil {
		return "", nil, err
	}
	return chain.Process(text, doc)
}

func (c *Cleaner) chainFor(names []string) (*cleaner.Chain, error) {
	if len(names) == 0 {
		names = DefaultProcessors
	}
	procs := make([]cleaner.Processor, 0, len(names))
	for _, name := range names {
		if !c.registry.Has(name) {
			logger.Warn("skipping unknown processor", "processor", name)
			continue
		}
		p, err := c.registry.New(name, c.settings.ProcessorArgs(name))
		if err != nil {
			return nil, err
		}
		procs = append(procs, p)
	}
	return cleaner.NewChain(procs...), nil
}

// Options selects what Process runs. Processors, when set, take precedence
// over Profile.
type Options struct {
	Profile    string   `json:"profile,omitempty" yaml:"profile,omitempty"`
	Processors []string `json:"processors,omitempty" yaml:"processors,omitempty"`
}

// Result is the outcome of cleaning one document.
type Result struct {
	Profile      string             `json:"profile,omitempty" yaml:"profile,omitempty"`
	Processors   []string           `json:"processors" yaml:"processors"`
	OriginalText string             `json:"original_text" yaml:"original_text"`
	CleanedText  string             `json:"cleaned_text" yaml:"cleaned_text"`
	Removed      []cleaner.Removal  `json:"removed_items" yaml:"removed_items"`
	Statistics   cleaner.Statistics `json:"statistics" yaml:"statistics"`
	CleanRate    cleanrate.Result   `json:"clean_rate" yaml:"clean_rate"`
	Document     *document.Document `json:"document,omitempty" yaml:"document,omitempty"`
}

// Process cleans doc in place and scores the removals.
func (c *Cleaner) Process(doc *document.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	original := doc.Text()
	res := &Result{OriginalText: original, Document: doc}

	var (
		cleaned string
		removed []cleaner.Removal
		err     error
	)
	if len(opts.Processors) > 0 {
		var chain *cleaner.Chain
		if chain, err = c.chainFor(opts.Processors); err != nil {
			return nil, err
		}
		for _, p := range chain.Processors() {
			res.Processors = append(res.Processors, p.Name())
		}
		cleaned, removed, err = chain.Process(original, doc)
	} else {
		cleaned, removed, res.Profile, err = c.CleanText(original, opts.Profile, doc)
		if p, perr := c.Profile(res.Profile); perr == nil {
			res.Processors = p.ProcessorNames()
		}
	}
	if err != nil {
		return nil, err
	}
	if removed == nil {
		removed = []cleaner.Removal{}
	}

	res.CleanedText = cleaned
	res.Removed = removed
	res.Statistics = cleaner.ComputeStatistics(original, cleaned)
	res.CleanRate = c.calculator.Calculate(removed, &res.Statistics, doc)
	logger.Debug("document cleaned",
		"profile", res.Profile,
		"records", len(removed),
		"score", res.CleanRate.Score)
	return res, nil
}

// ProcessText splits text into one paragraph per line and cleans it.
func (c *Cleaner) ProcessText(text string, opts Options) (*Result, error) {
	return c.Process(document.FromText(text), opts)
}

// PlainText returns the cleaned text.
func (r *Result) PlainText() string { return r.CleanedText }
