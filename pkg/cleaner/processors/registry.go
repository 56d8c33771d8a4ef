// Package processors implements the cleaning steps a transcript profile
// chains together, and a registry that builds them by name from loosely
// typed arguments (YAML profiles, config files, HTTP requests).
package processors

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
)

var (
	// ErrUnknownProcessor is returned for names the registry does not know.
	ErrUnknownProcessor = errors.New("unknown processor")
	// ErrInvalidArgs is returned when processor arguments fail to decode
	// or validate.
	ErrInvalidArgs = errors.New("invalid processor arguments")
)

// Factory builds a processor from raw arguments. Missing keys keep their
// defaults.
type Factory func(args map[string]any) (cleaner.Processor, error)

// Info describes a registered processor.
type Info struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

type entry struct {
	info    Info
	factory Factory
}

// Registry maps processor names to factories.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry returns a registry with every built-in processor.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]entry)}

	r.Register("special_chars", NewSpecialChars(SpecialCharsArgs{}).Description(),
		func(raw map[string]any) (cleaner.Processor, error) {
			args, err := decodeArgs(raw, SpecialCharsArgs{})
			if err != nil {
				return nil, err
			}
			return NewSpecialChars(args), nil
		})
	r.Register("whitespace", NewWhitespace().Description(),
		func(raw map[string]any) (cleaner.Processor, error) {
			if _, err := decodeArgs(raw, struct{}{}); err != nil {
				return nil, err
			}
			return NewWhitespace(), nil
		})
	r.Register("seif_marker", NewSeifMarker().Description(),
		func(raw map[string]any) (cleaner.Processor, error) {
			if _, err := decodeArgs(raw, struct{}{}); err != nil {
				return nil, err
			}
			return NewSeifMarker(), nil
		})
	r.Register("title_style", (&TitleStyle{}).Description(),
		func(raw map[string]any) (cleaner.Processor, error) {
			args, err := decodeArgs(raw, DefaultTitleStyleArgs())
			if err != nil {
				return nil, err
			}
			return NewTitleStyle(args)
		})
	r.Register("brackets_inline", (&BracketsInline{}).Description(),
		func(raw map[string]any) (cleaner.Processor, error) {
			args, err := decodeArgs(raw, DefaultExceptionArgs())
			if err != nil {
				return nil, err
			}
			return NewBracketsInline(args)
		})
	r.Register("parentheses_notes", (&ParenthesesNotes{}).Description(),
		func(raw map[string]any) (cleaner.Processor, error) {
			args, err := decodeArgs(raw, DefaultParenthesesNotesArgs())
			if err != nil {
				return nil, err
			}
			return NewParenthesesNotes(args)
		})
	r.Register("editorial_hebrew", (&EditorialHebrew{}).Description(),
		func(raw map[string]any) (cleaner.Processor, error) {
			args, err := decodeArgs(raw, DefaultEditorialHebrewArgs())
			if err != nil {
				return nil, err
			}
			return NewEditorialHebrew(args)
		})
	r.Register("force_remove", (&ForceRemove{}).Description(),
		func(raw map[string]any) (cleaner.Processor, error) {
			args, err := decodeArgs(raw, DefaultForceRemoveArgs())
			if err != nil {
				return nil, err
			}
			return NewForceRemove(args)
		})
	r.Register("regex", (&Regex{}).Description(),
		func(raw map[string]any) (cleaner.Processor, error) {
			args, err := decodeArgs(raw, DefaultRegexArgs())
			if err != nil {
				return nil, err
			}
			return NewRegex(args)
		})

	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name, description string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = entry{info: Info{Name: name, Description: description}, factory: f}
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// New builds the named processor.
func (r *Registry) New(name string, args map[string]any) (cleaner.Processor, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProcessor, name)
	}
	p, err := e.factory(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return p, nil
}

// Available lists registered processors sorted by name.
func (r *Registry) Available() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Default is the registry of built-in processors.
var Default = NewRegistry()

// New builds a processor from the default registry.
func New(name string, args map[string]any) (cleaner.Processor, error) {
	return Default.New(name, args)
}

// Available lists the processors in the default registry.
func Available() []Info { return Default.Available() }

var validate = validator.New()

// decodeArgs overlays raw onto defaults and validates the result.
func decodeArgs[T any](raw map[string]any, defaults T) (T, error) {
	args := defaults
	if len(raw) > 0 {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &args,
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			ZeroFields:       true,
			DecodeHook:       labeledPairHook,
		})
		if err != nil {
			return defaults, err
		}
		if err := dec.Decode(raw); err != nil {
			return defaults, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
		}
	}

	if reflect.ValueOf(args).Kind() == reflect.Struct && reflect.ValueOf(args).NumField() > 0 {
		if err := validate.Struct(args); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				msgs := make([]string, len(verrs))
				for i, e := range verrs {
					msgs[i] = e.Namespace() + " " + formatValidationError(e)
				}
				return defaults, fmt.Errorf("%w: %s", ErrInvalidArgs, strings.Join(msgs, "; "))
			}
			return defaults, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
		}
	}
	return args, nil
}

// labeledPairHook accepts a two-element [pattern, label] list wherever a
// LabeledPattern is expected.
func labeledPairHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(LabeledPattern{}) || (from.Kind() != reflect.Slice && from.Kind() != reflect.Array) {
		return data, nil
	}
	v := reflect.ValueOf(data)
	if v.Len() != 2 {
		return nil, fmt.Errorf("pattern pair must have 2 elements, got %d", v.Len())
	}
	return map[string]any{
		"pattern": fmt.Sprint(v.Index(0).Interface()),
		"label":   fmt.Sprint(v.Index(1).Interface()),
	}, nil
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gte", "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
