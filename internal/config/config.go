// Package config loads transcript-clean settings from flags, environment
// and an optional YAML file through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/fetch"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/llm"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/transcript"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. TRANSCRIPT_CLEAN_PROFILE.
	EnvPrefix = "TRANSCRIPT_CLEAN"
	// FileName is the config file name searched in $HOME and the working
	// directory, without extension.
	FileName = ".transcript-clean"

	DefaultAddr         = ":8080"
	DefaultMaxInputSize = "20MB"
)

// Config is the full application configuration.
type Config struct {
	Debug     bool   `mapstructure:"debug"`
	Quiet     bool   `mapstructure:"quiet"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=text json"`

	Profile      string   `mapstructure:"profile"`
	Processors   []string `mapstructure:"processors"`
	ProfilesFile string   `mapstructure:"profiles_file" validate:"omitempty,file"`

	transcript.Settings `mapstructure:",squash"`

	// MaxInputSize is a human byte size such as "20MB".
	MaxInputSize  string `mapstructure:"max_input_size" validate:"required"`
	MaxInputBytes int64  `mapstructure:"-"`

	LLM    LLMConfig    `mapstructure:"llm"`
	Server ServerConfig `mapstructure:"server"`
	Fetch  FetchConfig  `mapstructure:"fetch"`
}

// LLMConfig selects and configures the LLM cleaner.
type LLMConfig struct {
	// Provider is empty to detect one from API keys in the environment.
	Provider           string `mapstructure:"provider"`
	llm.ProviderConfig `mapstructure:",squash"`
	PromptFile         string `mapstructure:"prompt_file" validate:"omitempty,file"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// FetchConfig configures URL input.
type FetchConfig struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

var validate = validator.New()

// New returns a viper instance wired to the config file and environment.
// An explicit cfgFile replaces the search path. A missing default config
// file is not an error.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}
	Bind(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Bind enables environment overrides. Nested keys use underscores, so
// llm.api_key is TRANSCRIPT_CLEAN_LLM_API_KEY.
func Bind(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// SetDefaults registers every key so environment overrides reach
// Unmarshal.
func SetDefaults(v *viper.Viper) {
	s := transcript.DefaultSettings()
	p := llm.DefaultProviderConfig()
	f := fetch.DefaultConfig()

	v.SetDefault("debug", false)
	v.SetDefault("quiet", false)
	v.SetDefault("log_format", "text")
	v.SetDefault("profile", transcript.DefaultProfile)
	v.SetDefault("processors", []string{})
	v.SetDefault("profiles_file", "")
	v.SetDefault("exception_patterns", s.ExceptionPatterns)
	v.SetDefault("force_remove_patterns", s.ForceRemovePatterns)
	v.SetDefault("min_words", s.MinWords)
	v.SetDefault("size_threshold", s.SizeThreshold)
	v.SetDefault("bold_max_words", s.BoldMaxWords)
	v.SetDefault("non_speech_patterns", []string{})
	v.SetDefault("additional_patterns", []string{})
	v.SetDefault("remove_all", s.RemoveAll)
	v.SetDefault("max_input_size", DefaultMaxInputSize)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.max_retries", p.MaxRetries)
	v.SetDefault("llm.timeout", p.Timeout)
	v.SetDefault("llm.http_referer", p.HTTPReferer)
	v.SetDefault("llm.app_title", p.AppTitle)
	v.SetDefault("llm.prompt_file", "")

	v.SetDefault("server.addr", DefaultAddr)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Minute)

	v.SetDefault("fetch.user_agent", f.UserAgent)
	v.SetDefault("fetch.timeout", f.Timeout)
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and resolves MaxInputBytes.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	n, err := humanize.ParseBytes(c.MaxInputSize)
	if err != nil {
		return fmt.Errorf("invalid max_input_size %q: %w", c.MaxInputSize, err)
	}
	c.MaxInputBytes = int64(n)
	return nil
}

// CleanerOptions builds facade options from the settings and the optional
// profiles file.
func (c *Config) CleanerOptions() ([]transcript.Option, error) {
	opts := []transcript.Option{transcript.WithSettings(c.Settings)}
	if c.ProfilesFile == "" {
		return opts, nil
	}

	f, err := os.Open(c.ProfilesFile)
	if err != nil {
		return nil, fmt.Errorf("opening profiles file: %w", err)
	}
	defer f.Close()

	profiles, err := transcript.LoadProfiles(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", c.ProfilesFile, err)
	}
	return append(opts, transcript.WithProfiles(profiles...)), nil
}

// NewCleaner builds the cleaning facade.
func (c *Config) NewCleaner() (*transcript.Cleaner, error) {
	opts, err := c.CleanerOptions()
	if err != nil {
		return nil, err
	}
	return transcript.New(opts...)
}

// NewProvider builds the configured LLM provider. Without a provider name
// one is detected from the environment.
func (c *Config) NewProvider() (llm.Provider, error) {
	name, cfg := c.LLM.Provider, c.LLM.ProviderConfig
	if name == "" {
		var key string
		name, key = llm.DetectProvider()
		if cfg.APIKey == "" {
			cfg.APIKey = key
		}
	} else if cfg.APIKey == "" {
		cfg.APIKey = envKey(name)
	}
	return llm.NewProvider(name, cfg)
}

func envKey(provider string) string {
	for _, info := range llm.Providers() {
		if strings.EqualFold(info.Name, provider) && info.EnvKey != "" {
			return os.Getenv(info.EnvKey)
		}
	}
	return ""
}

// Prompt returns the prompt template from PromptFile, or the default.
func (c *Config) Prompt() (string, error) {
	if c.LLM.PromptFile == "" {
		return llm.DefaultPrompt, nil
	}
	b, err := os.ReadFile(c.LLM.PromptFile)
	if err != nil {
		return "", fmt.Errorf("reading prompt: %w", err)
	}
	return string(b), nil
}

// FetcherConfig returns the URL fetcher configuration.
func (c *Config) FetcherConfig() fetch.Config {
	return fetch.Config{
		UserAgent:   c.Fetch.UserAgent,
		Timeout:     c.Fetch.Timeout,
		MaxBodySize: int(c.MaxInputBytes),
	}
}
