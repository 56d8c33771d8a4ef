package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TextWriter writes the cleaned text of each result, separated by a blank
// line. Strings are written as-is and other values through fmt.
type TextWriter struct {
	w       *bufio.Writer
	written int
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write writes one result.
func (w *TextWriter) Write(data any) error {
	var s string
	switch v := data.(type) {
	case PlainTexter:
		s = v.PlainText()
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}

	if w.written > 0 {
		if _, err := w.w.WriteString("\n"); err != nil {
			return err
		}
	}
	w.written++
	if _, err := w.w.WriteString(s); err != nil {
		return err
	}
	if !strings.HasSuffix(s, "\n") {
		if _, err := w.w.WriteString("\n"); err != nil {
			return err
		}
	}
	return w.w.Flush()
}

// Flush flushes the buffer.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *TextWriter) Close() error {
	return w.Flush()
}
