// Package cleaner defines the processor contract for cleaning transcripts,
// the removal records processors emit, and the chain that runs them.
package cleaner

import "github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"

// Processor removes one kind of non-speech content.
//
// When doc is non-nil the processor works paragraph by paragraph on the
// document, mutating text or marking paragraphs removed, and returns
// doc.Text(). When doc is nil it works on text alone; processors that need
// formatting signals return text unchanged in that case.
type Processor interface {
	// Process cleans text and reports what was removed.
	Process(text string, doc *document.Document) (string, []Removal, error)

	// Name returns the registry name, e.g. "title_style".
	Name() string

	// Description returns a short human-readable summary.
	Description() string
}
