package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// resetLogger resets the logger to default state for test isolation
func resetLogger() {
	_ = Init(Options{})
}

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		logged   []string
		unlogged []string
	}{
		{"default_info", Options{}, []string{"info", "warn", "error"}, []string{"debug"}},
		{"debug", Options{Debug: true}, []string{"debug", "info"}, nil},
		{"quiet", Options{Quiet: true}, []string{"error"}, []string{"debug", "info", "warn"}},
		{"quiet_overrides_debug", Options{Debug: true, Quiet: true}, []string{"error"}, []string{"debug", "info"}},
		{"level_warn", Options{Level: "warn"}, []string{"warn", "error"}, []string{"info"}},
		{"level_overrides_quiet", Options{Quiet: true, Level: "debug"}, []string{"debug"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			opts := tt.opts
			opts.Output = buf
			if err := Init(opts); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			defer resetLogger()

			Debug("msg-debug")
			Info("msg-info")
			Warn("msg-warn")
			Error("msg-error")

			out := buf.String()
			for _, l := range tt.logged {
				if !strings.Contains(out, "msg-"+l) {
					t.Errorf("%s message not logged", l)
				}
			}
			for _, l := range tt.unlogged {
				if strings.Contains(out, "msg-"+l) {
					t.Errorf("%s message logged", l)
				}
			}
		})
	}
}

func TestInit_InvalidLevel(t *testing.T) {
	if err := Init(Options{Level: "loud"}); err == nil {
		t.Error("Init() with unknown level returned nil error")
	}
}

func TestInit_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	_ = Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("test message", "count", 42)

	output := buf.String()
	if !strings.HasPrefix(output, "{") {
		t.Errorf("JSON format should produce JSON output, got %q", output)
	}
	for _, want := range []string{`"msg":"test message"`, `"count":42`, `"level":"INFO"`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
}

func TestWith_AndComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	_ = Init(Options{Output: buf})
	defer resetLogger()

	With("key", "value").Info("with attrs")
	Component("diff").Info("from component")

	output := buf.String()
	if !strings.Contains(output, "key=value") {
		t.Errorf("expected attributes in output: %s", output)
	}
	if !strings.Contains(output, "component=diff") {
		t.Errorf("expected component in output: %s", output)
	}
}

func TestContextFunctions(t *testing.T) {
	buf := &bytes.Buffer{}
	_ = Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	ctx := context.Background()
	DebugContext(ctx, "debug with context")
	InfoContext(ctx, "info with context")
	WarnContext(ctx, "warn with context")
	ErrorContext(ctx, "error with context")

	for _, want := range []string{"debug with context", "info with context", "warn with context", "error with context"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestSetLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	SetLogger(slog.New(slog.NewTextHandler(buf, nil)))
	defer resetLogger()

	Info("custom logger")
	if !strings.Contains(buf.String(), "custom logger") {
		t.Error("custom logger not used")
	}
	if Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug enabled on default-level handler")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}
