package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/output"
	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/reader"
	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/version"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleaner"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/cleanrate"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/diff"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/llm"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/transcript"
)

const multipartMemory = 8 << 20

var (
	errNoInput     = errors.New("no text, paragraphs or file provided")
	errLLMDisabled = errors.New("LLM cleaning is not enabled")
)

var validate = validator.New()

// input is the document part shared by the clean endpoints.
type input struct {
	Text       string                `json:"text"`
	Paragraphs []*document.Paragraph `json:"paragraphs"`
	Filename   string                `json:"filename"`
}

type cleanRequest struct {
	input
	Profile     string   `json:"profile"`
	Processors  []string `json:"processors"`
	IncludeDiff bool     `json:"include_diff"`
}

type cleanResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename,omitempty"`
	*transcript.Result
	DiffSummary *diff.Summary `json:"diff_summary,omitempty"`
}

type llmRequest struct {
	input
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"api_key"`
	Prompt   string `json:"prompt"`
}

type llmResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename,omitempty"`
	*llm.Result
	OriginalText string             `json:"original_text"`
	Statistics   cleaner.Statistics `json:"statistics"`
	CleanRate    cleanrate.Result   `json:"clean_rate"`
}

type diffRequest struct {
	Original string `json:"original" validate:"required_without=Cleaned"`
	Cleaned  string `json:"cleaned"`
	HTML     bool   `json:"html"`
}

type diffResponse struct {
	Diff    *diff.LineDiff `json:"diff"`
	Summary diff.Summary   `json:"summary"`
	HTML    string         `json:"html,omitempty"`
}

type downloadRequest struct {
	CleanedText string `json:"cleaned_text" validate:"required"`
	Filename    string `json:"filename"`
	Format      string `json:"format"`
}

func (d downloadRequest) PlainText() string { return d.CleanedText }

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "version": version.String()})
}

func (s *Server) handleProfiles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"profiles": s.cleaner.Profiles()})
}

func (s *Server) handleProcessors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"processors": s.cleaner.Processors(),
		"default":    transcript.DefaultProcessors,
	})
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rules": s.cleaner.Rules()})
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"input":  reader.Formats(),
		"output": output.Formats(),
	})
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	if s.providers == nil {
		writeError(w, http.StatusNotFound, errLLMDisabled)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"providers": llm.Providers()})
}

func (s *Server) handlePrompt(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"prompt": s.prompt})
}

func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	var req cleanRequest
	doc, err := s.decodeInput(w, r, &req, &req.input, func(form func(string) string) {
		req.Profile = form("profile")
		req.Processors = splitList(form("processors"))
		req.IncludeDiff, _ = strconv.ParseBool(form("include_diff"))
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	res, err := s.cleaner.Process(doc, transcript.Options{Profile: req.Profile, Processors: req.Processors})
	if err != nil {
		s.log.Error("clean failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	resp := cleanResponse{Success: true, Filename: req.Filename, Result: res}
	if req.IncludeDiff {
		sum := diff.Summarize(res.OriginalText, res.CleanedText)
		resp.DiffSummary = &sum
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLLMClean(w http.ResponseWriter, r *http.Request) {
	if s.providers == nil {
		writeError(w, http.StatusNotFound, errLLMDisabled)
		return
	}

	var req llmRequest
	doc, err := s.decodeInput(w, r, &req, &req.input, func(form func(string) string) {
		req.Provider = form("provider")
		req.Model = strings.TrimSpace(form("model"))
		req.APIKey = strings.TrimSpace(form("api_key"))
		req.Prompt = form("prompt")
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	provider, err := s.providers(req.Provider, llm.ProviderConfig{APIKey: req.APIKey, Model: req.Model})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	prompt := req.Prompt
	if prompt == "" {
		prompt = s.prompt
	}

	original := doc.Text()
	res, err := llm.Clean(r.Context(), provider, original, prompt)
	if err != nil {
		s.log.Error("llm clean failed", "provider", provider.Name(), "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, llmResponse{
		Success:      true,
		Filename:     req.Filename,
		Result:       res,
		OriginalText: original,
		Statistics:   cleaner.ComputeStatistics(original, res.CleanedText),
		CleanRate:    cleanrate.LLMProcessed(),
	})
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req diffRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	d, err := diff.Lines(req.Original, req.Cleaned)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	resp := diffResponse{Diff: d, Summary: diff.Summarize(req.Original, req.Cleaned)}
	if req.HTML {
		resp.HTML = d.HTML()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	format, err := output.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	base := strings.TrimSuffix(filepath.Base(req.Filename), filepath.Ext(req.Filename))
	if base == "" || base == "." {
		base = "cleaned_document"
	}
	name := base + "_cleaned" + extension(format)
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))

	out, err := output.NewWriter(w, format, output.WithPretty(true))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := out.Write(req); err != nil {
		s.log.Error("download failed", "error", err)
		return
	}
	if err := out.Close(); err != nil {
		s.log.Error("download failed", "error", err)
	}
}

// decodeInput reads a JSON body into req, or a multipart upload whose
// "file" part becomes the document and whose other fields go through
// fromForm. It returns the document to clean.
func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request, req any, in *input, fromForm func(func(string) string)) (*document.Document, error) {
	opts := []reader.Option{reader.WithMaxSize(s.config.MaxInputSize)}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxInputSize+multipartMemory)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, badRequest(err)
		}
		fromForm(r.FormValue)

		file, header, err := r.FormFile("file")
		if err != nil {
			if text := r.FormValue("text"); text != "" {
				return reader.Read(strings.NewReader(text), reader.FormatText, opts...)
			}
			return nil, badRequest(errNoInput)
		}
		defer file.Close()

		in.Filename = filepath.Base(header.Filename)
		format, err := reader.DetectFormat(in.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, reader.WithDocumentOptions(document.WithMetadata(document.Metadata{
			Filename: in.Filename,
			Format:   string(format),
		})))
		return reader.Read(file, format, opts...)
	}

	if err := s.decodeJSON(w, r, req); err != nil {
		return nil, err
	}
	switch {
	case len(in.Paragraphs) > 0:
		return reader.FromParagraphs(in.Paragraphs, opts...)
	case in.Text != "":
		return reader.Read(strings.NewReader(in.Text), reader.FormatText, opts...)
	}
	return nil, badRequest(errNoInput)
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxInputSize))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest(errors.New("empty request body"))
		}
		return badRequest(err)
	}
	if err := validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if !errors.As(err, &invalid) {
			return badRequest(err)
		}
	}
	return nil
}

// requestError marks client errors.
type requestError struct{ err error }

func (e requestError) Error() string { return e.err.Error() }
func (e requestError) Unwrap() error { return e.err }

func badRequest(err error) error { return requestError{err} }

func statusFor(err error) int {
	var (
		req    requestError
		tooBig *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooBig), errors.Is(err, reader.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, reader.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &req),
		errors.Is(err, reader.ErrInvalidInput),
		errors.Is(err, llm.ErrEmptyText),
		errors.Is(err, llm.ErrMissingAPIKey),
		errors.Is(err, llm.ErrUnknownProvider):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// splitList accepts a JSON array or a comma-separated list.
func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	if strings.HasPrefix(s, "[") && json.Unmarshal([]byte(s), &out) == nil {
		return out
	}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func extension(f output.Format) string {
	switch f {
	case output.FormatJSON:
		return ".json"
	case output.FormatJSONL:
		return ".jsonl"
	case output.FormatYAML:
		return ".yaml"
	}
	return ".txt"
}

func contentType(f output.Format) string {
	switch f {
	case output.FormatJSON:
		return "application/json"
	case output.FormatJSONL:
		return "application/x-ndjson"
	case output.FormatYAML:
		return "application/yaml"
	}
	return "text/plain; charset=utf-8"
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"error": err.Error(), "success": false})
}
