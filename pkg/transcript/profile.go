package transcript

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner/processors"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

// ProcessorConfig names a processor and its arguments.
type ProcessorConfig struct {
	Name string         `json:"name" yaml:"name" validate:"required"`
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
}

// Profile is a named, ordered processor list. The processors are built
// on first use and reused afterwards.
type Profile struct {
	Name        string            `json:"name" yaml:"name" validate:"required"`
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description" yaml:"description"`
	Processors  []ProcessorConfig `json:"processors" yaml:"processors" validate:"min=1,dive"`

	registry *processors.Registry
	once     sync.Once
	chain    *cleaner.Chain
	err      error
}

// NewProfile creates a profile resolved against the default registry.
func NewProfile(name, title, description string, configs ...ProcessorConfig) *Profile {
	return &Profile{Name: name, Title: title, Description: description, Processors: configs}
}

// Chain builds the processor chain, once.
func (p *Profile) Chain() (*cleaner.Chain, error) {
	p.once.Do(func() {
		reg := p.registry
		if reg == nil {
			reg = processors.Default
		}
		procs := make([]cleaner.Processor, 0, len(p.Processors))
		for _, cfg := range p.Processors {
			proc, err := reg.New(cfg.Name, cfg.Args)
			if err != nil {
				p.err = fmt.Errorf("profile %s: %w", p.Name, err)
				return
			}
			procs = append(procs, proc)
		}
		p.chain = cleaner.NewChain(procs...)
	})
	return p.chain, p.err
}

// Process runs the profile's chain.
func (p *Profile) Process(text string, doc *document.Document) (string, []cleaner.Removal, error) {
	chain, err := p.Chain()
	if err != nil {
		return "", nil, err
	}
	return chain.Process(text, doc)
}

// ProcessorNames lists the configured processor names in order.
func (p *Profile) ProcessorNames() []string {
	names := make([]string, len(p.Processors))
	for i, cfg := range p.Processors {
		names[i] = cfg.Name
	}
	return names
}

// ProfileInfo describes a profile for listings.
type ProfileInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Processors  []string `json:"processors" yaml:"processors"`
	Default     bool     `json:"default,omitempty" yaml:"default,omitempty"`
}

// profileFile is the YAML layout accepted by LoadProfiles.
type profileFile struct {
	Profiles []*Profile `yaml:"profiles" validate:"dive,required"`
}

var validate = validator.New()

// LoadProfiles decodes profiles from YAML:
//
//	profiles:
//	  - name: lenient
//	    title: Lenient
//	    processors:
//	      - name: title_style
//	        args: {min_words: 3}
//	      - name: whitespace
//
// Processor names and arguments are checked when the profile first runs.
func LoadProfiles(r io.Reader) ([]*Profile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f profileFile
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding profiles: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid profiles: %w", err)
	}
	return f.Profiles, nil
}
