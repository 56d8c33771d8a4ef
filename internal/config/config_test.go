package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/transcript"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	def := transcript.DefaultSettings()
	if cfg.Profile != transcript.DefaultProfile {
		t.Errorf("Profile = %q", cfg.Profile)
	}
	if cfg.MinWords != def.MinWords || cfg.SizeThreshold != def.SizeThreshold {
		t.Errorf("Settings = %+v, want %+v", cfg.Settings, def)
	}
	if len(cfg.ExceptionPatterns) != len(def.ExceptionPatterns) {
		t.Errorf("ExceptionPatterns = %v", cfg.ExceptionPatterns)
	}
	if cfg.MaxInputBytes != 20_000_000 {
		t.Errorf("MaxInputBytes = %d, want 20000000", cfg.MaxInputBytes)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.LLM.MaxRetries != 3 {
		t.Errorf("LLM.MaxRetries = %d", cfg.LLM.MaxRetries)
	}
}

func TestNew_ConfigFile(t *testing.T) {
	path := writeFile(t, "cfg.yaml", `
profile: titles_only
min_words: 3
size_threshold: 1.5
max_input_size: 1MiB
exception_patterns: ["לחיים", "אמן"]
llm:
  provider: ollama
  model: qwen2.5
server:
  addr: 127.0.0.1:9000
`)
	v, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Profile != "titles_only" || cfg.MinWords != 3 || cfg.SizeThreshold != 1.5 {
		t.Errorf("cfg = profile %q min_words %d size_threshold %v", cfg.Profile, cfg.MinWords, cfg.SizeThreshold)
	}
	if cfg.MaxInputBytes != 1<<20 {
		t.Errorf("MaxInputBytes = %d, want %d", cfg.MaxInputBytes, 1<<20)
	}
	if got := strings.Join(cfg.ExceptionPatterns, ","); got != "לחיים,אמן" {
		t.Errorf("ExceptionPatterns = %q", got)
	}
	if cfg.LLM.Provider != "ollama" || cfg.LLM.Model != "qwen2.5" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}

	p, err := cfg.NewProvider()
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.Name() != "ollama" || p.Model() != "qwen2.5" {
		t.Errorf("provider = %s/%s", p.Name(), p.Model())
	}
}

func TestNew_MissingExplicitFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("New() error = nil for missing explicit file")
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("TRANSCRIPT_CLEAN_MIN_WORDS", "7")
	t.Setenv("TRANSCRIPT_CLEAN_SERVER_ADDR", ":9999")
	v := viper.New()
	SetDefaults(v)
	Bind(v)
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MinWords != 7 {
		t.Errorf("MinWords = %d, want 7", cfg.MinWords)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"negative min words", "min_words", -1},
		{"zero size threshold", "size_threshold", 0.0},
		{"bad log format", "log_format", "xml"},
		{"bad byte size", "max_input_size", "lots"},
		{"missing profiles file", "profiles_file", "/does/not/exist.yaml"},
		{"empty addr", "server.addr", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.val)
			if _, err := Load(v); err == nil {
				t.Errorf("Load() with %s=%v error = nil", tt.key, tt.val)
			}
		})
	}
}

func TestNewCleaner_ProfilesFile(t *testing.T) {
	path := writeFile(t, "profiles.yaml", `
profiles:
  - name: whitespace_only
    title: Whitespace
    processors:
      - name: whitespace
`)
	v := viper.New()
	SetDefaults(v)
	v.Set("profiles_file", path)
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	c, err := cfg.NewCleaner()
	if err != nil {
		t.Fatalf("NewCleaner() error = %v", err)
	}
	if _, err := c.Profile("whitespace_only"); err != nil {
		t.Errorf("Profile(whitespace_only) error = %v", err)
	}
}

func TestPrompt(t *testing.T) {
	cfg := &Config{}
	got, err := cfg.Prompt()
	if err != nil || !strings.Contains(got, "{document_text}") {
		t.Errorf("default Prompt() = %q, %v", got, err)
	}

	cfg.LLM.PromptFile = writeFile(t, "prompt.txt", "Clean: {document_text}")
	got, err = cfg.Prompt()
	if err != nil || got != "Clean: {document_text}" {
		t.Errorf("Prompt() = %q, %v", got, err)
	}
}
