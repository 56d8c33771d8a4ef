// Package reader turns transcript files into documents: paragraph
// metadata as JSON, plain text, HTML and Word .docx.
package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/logger"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

// Format is an input format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatDOCX Format = "docx"
)

var (
	// ErrUnsupportedFormat is returned for unknown formats and extensions.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrTooLarge is returned when input exceeds the configured maximum.
	ErrTooLarge = errors.New("input too large")
	// ErrInvalidInput is returned for paragraphs failing validation.
	ErrInvalidInput = errors.New("invalid paragraphs")
)

// Options configures reading.
type Options struct {
	// MaxSize limits input bytes; 0 means unlimited.
	MaxSize  int64
	Document []document.Option
}

// Option configures Options.
type Option func(*Options)

// WithMaxSize limits how many bytes are read.
func WithMaxSize(n int64) Option {
	return func(o *Options) { o.MaxSize = n }
}

// WithDocumentOptions passes options to document.New.
func WithDocumentOptions(opts ...document.Option) Option {
	return func(o *Options) { o.Document = append(o.Document, opts...) }
}

// Formats lists the supported input formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatHTML, FormatDOCX}
}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "text", "txt", "md":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "html", "htm", "xhtml":
		return FormatHTML, nil
	case "docx":
		return FormatDOCX, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
}

// DetectFormat picks a format from a file name, falling back to a MIME
// content type.
func DetectFormat(name, contentType string) (Format, error) {
	if ext := filepath.Ext(name); ext != "" {
		if f, err := ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "html"):
		return FormatHTML, nil
	case strings.Contains(ct, "json"):
		return FormatJSON, nil
	case strings.Contains(ct, "wordprocessingml"):
		return FormatDOCX, nil
	case strings.HasPrefix(ct, "text/"):
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// Read parses r in the given format. Paragraph text is NFC-normalized so
// precomposed and combining Hebrew points compare equal in patterns.
func Read(r io.Reader, format Format, opts ...Option) (*document.Document, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	data, err := readAll(r, o.MaxSize)
	if err != nil {
		return nil, err
	}

	var paras []*document.Paragraph
	switch format {
	case FormatText:
		paras = readText(data)
	case FormatJSON:
		paras, err = readJSON(data)
	case FormatHTML:
		paras, err = readHTML(data)
	case FormatDOCX:
		paras, err = readDOCX(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", format, err)
	}

	logger.Debug("input read", "format", format, "bytes", len(data), "paragraphs", len(paras))
	return build(paras, o), nil
}

// FromParagraphs validates decoded paragraphs and builds a document from
// them, as Read does for JSON input.
func FromParagraphs(paras []*document.Paragraph, opts ...Option) (*document.Document, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateParagraphs(paras); err != nil {
		return nil, err
	}
	return build(paras, o), nil
}

func build(paras []*document.Paragraph, o Options) *document.Document {
	for _, p := range paras {
		if p != nil {
			normalize(p)
		}
	}
	return document.New(paras, o.Document...)
}

// ReadFile reads path, detecting the format from its extension.
func ReadFile(path string, opts ...Option) (*document.Document, error) {
	format, err := DetectFormat(path, "")
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	opts = append([]Option{WithDocumentOptions(document.WithMetadata(document.Metadata{
		Filename: filepath.Base(path),
		Source:   path,
		Format:   string(format),
	}))}, opts...)
	return Read(f, format, opts...)
}

func readAll(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

func normalize(p *document.Paragraph) {
	p.Text = norm.NFC.String(p.Text)
	p.OriginalText = norm.NFC.String(p.OriginalText)
	for i := range p.Runs {
		p.Runs[i].Text = norm.NFC.String(p.Runs[i].Text)
	}
}

// readText makes one paragraph per non-blank line.
func readText(data []byte) []*document.Paragraph {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	var paras []*document.Paragraph
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		paras = append(paras, document.NewParagraph(line))
	}
	return paras
}
