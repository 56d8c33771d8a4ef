package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/config"
	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/fetch"
	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/logger"
	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/output"
	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/reader"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

const stdinName = "-"

// inputFlags adds flags shared by commands that read transcripts.
func inputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input-format", "i", "", "input format: text, json, html, docx (default: from extension; text for stdin)")
}

// outputFlags adds flags shared by commands that write results.
func outputFlags(cmd *cobra.Command, defaultFormat output.Format) {
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringP("format", "f", string(defaultFormat), "output format: text, json, jsonl, yaml")
}

// readInput loads one transcript from a file path, an http(s) URL or "-"
// for stdin.
func readInput(ctx context.Context, cmd *cobra.Command, cfg *config.Config, src string) (*document.Document, error) {
	forced, _ := cmd.Flags().GetString("input-format")
	opts := []reader.Option{reader.WithMaxSize(cfg.MaxInputBytes)}

	var (
		r      io.Reader
		format reader.Format
		err    error
	)
	switch {
	case src == stdinName:
		r, format = cmd.InOrStdin(), reader.FormatText
	case fetch.IsURL(src):
		content, err := fetch.New(cfg.FetcherConfig()).Fetch(ctx, src)
		if err != nil {
			return nil, err
		}
		if format, err = reader.DetectFormat(content.Name(), content.ContentType); err != nil {
			return nil, err
		}
		r = bytes.NewReader(content.Body)
	default:
		if format, err = reader.DetectFormat(src, ""); err != nil && forced == "" {
			return nil, err
		}
		f, err := os.Open(src) //#nosec G304 -- CLI tool reads user-specified input
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	if forced != "" {
		if format, err = reader.ParseFormat(forced); err != nil {
			return nil, err
		}
	}
	opts = append(opts, reader.WithDocumentOptions(
		document.WithSizeThreshold(cfg.SizeThreshold),
		document.WithMetadata(document.Metadata{Filename: src, Source: src, Format: string(format)}),
	))

	logger.Debug("reading input", "source", src, "format", format)
	doc, err := reader.Read(r, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return doc, nil
}

// openOutput returns the writer for the --output and --format flags and a
// cleanup func.
func openOutput(cmd *cobra.Command) (output.Writer, func(), error) {
	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return nil, nil, err
	}

	out := cmd.OutOrStdout()
	var file *os.File
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		file, err = os.Create(path) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			return nil, nil, err
		}
		out = file
	}

	w, err := output.NewWriter(out, format, output.WithPretty(true))
	if err != nil {
		if file != nil {
			_ = file.Close()
		}
		return nil, nil, err
	}
	return w, func() {
		_ = w.Close()
		if file != nil {
			_ = file.Close()
		}
	}, nil
}

// inputs returns args, or stdin when there are none.
func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{stdinName}
	}
	return args
}
