// Package fetch downloads transcripts from URLs so they can be read like
// local files.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/logger"
)

const (
	defaultUserAgent = "transcript-clean/1 (+https://github.com/Shloimy15e/clean-yiddish-transcripts)"
	defaultTimeout   = 30 * time.Second
	defaultMaxBody   = 10 << 20
)

// ErrStatus is returned for non-2xx responses.
var ErrStatus = errors.New("unexpected status")

// Config holds fetcher settings.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	// MaxBodySize caps the downloaded body in bytes.
	MaxBodySize int
	Headers     map[string]string
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent:   defaultUserAgent,
		Timeout:     defaultTimeout,
		MaxBodySize: defaultMaxBody,
	}
}

// Content is a fetched resource.
type Content struct {
	URL         string    `json:"url"`
	StatusCode  int       `json:"status_code"`
	ContentType string    `json:"content_type,omitempty"`
	Body        []byte    `json:"-"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Name returns the last path segment of the URL, used to detect the
// format from its extension.
func (c Content) Name() string {
	u := c.URL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return path.Base(u)
}

// Fetcher retrieves documents with colly.
type Fetcher struct {
	config Config
}

// New creates a fetcher, filling unset fields from DefaultConfig.
func New(cfg Config) *Fetcher {
	def := DefaultConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = def.MaxBodySize
	}
	return &Fetcher{config: cfg}
}

// Fetch downloads targetURL.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Debug("fetch starting", "url", targetURL)

	result := &Content{URL: targetURL, FetchedAt: time.Now()}

	c := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
	)
	c.MaxBodySize = f.config.MaxBodySize
	c.SetRequestTimeout(f.config.Timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		for k, v := range f.config.Headers {
			r.Headers.Set(k, v)
		}
	})

	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.ContentType = r.Headers.Get("Content-Type")
		result.Body = r.Body
		logger.Debug("fetch response received",
			"status", r.StatusCode,
			"content_type", result.ContentType,
			"body_size", len(r.Body))
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetch error: %w", err)
		logger.Debug("fetch error", "status", result.StatusCode, "error", err)
	})

	if err := c.Visit(targetURL); err != nil {
		if fetchErr != nil {
			return result, fetchErr
		}
		return result, fmt.Errorf("failed to visit URL: %w", err)
	}
	if fetchErr != nil {
		return result, fetchErr
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if result.StatusCode < http.StatusOK || result.StatusCode >= http.StatusMultipleChoices {
		return result, fmt.Errorf("%w: %d", ErrStatus, result.StatusCode)
	}

	logger.Debug("fetch complete", "url", targetURL, "bytes", len(result.Body))
	return result, nil
}

// IsURL reports whether s looks like an http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
