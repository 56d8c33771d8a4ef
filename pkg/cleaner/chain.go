package cleaner

import (
	"fmt"
	"strings"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/logger"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

// Chain applies processors in sequence. Each processor sees the output of
// the one before it; when a document is supplied its joined text is rebuilt
// after every step so later processors never see stale text.
type Chain struct {
	processors []Processor
}

// NewChain creates a chain that runs processors in the order provided.
//
// Example:
//
//	chain := cleaner.NewChain(
//	    processors.NewSpecialChars(processors.SpecialCharsArgs{}),
//	    processors.NewWhitespace(),
//	)
func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

// Process runs every processor and concatenates their removal records in
// execution order. On the first error it returns an empty result.
func (c *Chain) Process(text string, doc *document.Document) (string, []Removal, error) {
	var all []Removal
	for _, p := range c.processors {
		out, removed, err := p.Process(text, doc)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", p.Name(), err)
		}
		if doc != nil {
			out = doc.Text()
		}
		logger.Debug("processor applied",
			"processor", p.Name(),
			"records", len(removed),
			"chars_before", len(text),
			"chars_after", len(out))
		text = out
		all = append(all, removed...)
	}
	return text, all, nil
}

// Processors returns the chained processors.
func (c *Chain) Processors() []Processor {
	out := make([]Processor, len(c.processors))
	copy(out, c.processors)
	return out
}

// Len returns the number of processors.
func (c *Chain) Len() int { return len(c.processors) }

// Name returns the names of all chained processors.
func (c *Chain) Name() string {
	names := make([]string, len(c.processors))
	for i, p := range c.processors {
		names[i] = p.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}

// Description lists the chained processors' descriptions.
func (c *Chain) Description() string {
	descs := make([]string, len(c.processors))
	for i, p := range c.processors {
		descs[i] = p.Description()
	}
	return strings.Join(descs, "; ")
}
