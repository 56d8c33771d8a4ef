package commands

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/server"
	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/llm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cleaning HTTP API",
	Long: `Serve the HTTP API.

Endpoints:
  GET  /healthz
  GET  /api/profiles, /api/processors, /api/rules, /api/formats
  POST /api/clean      JSON {text|paragraphs, profile, processors} or multipart file upload
  POST /api/diff       JSON {original, cleaned, html}
  POST /api/download   JSON {cleaned_text, filename, format}
  GET  /api/llm/providers, /api/llm/prompt
  POST /api/llm/clean  JSON or multipart, with provider, model, api_key, prompt`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	flags := serveCmd.Flags()
	flags.String("addr", "", "listen address (default :8080)")
	flags.String("profiles-file", "", "YAML file with additional profiles")
	flags.String("max-input-size", "", "max upload size (e.g. 20MB)")
	flags.Bool("no-llm", false, "disable the LLM endpoints")
	flags.String("prompt-file", "", "prompt template file for LLM cleaning")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"server.addr":     "addr",
		"profiles_file":   "profiles-file",
		"max_input_size":  "max-input-size",
		"llm.prompt_file": "prompt-file",
	})
	if err != nil {
		return err
	}
	c, err := cfg.NewCleaner()
	if err != nil {
		logError("%v", err)
		return err
	}

	var opts []server.Option
	if noLLM, _ := cmd.Flags().GetBool("no-llm"); !noLLM {
		prompt, err := cfg.Prompt()
		if err != nil {
			logError("%v", err)
			return err
		}
		base := cfg.LLM
		opts = append(opts, server.WithLLM(func(name string, pc llm.ProviderConfig) (llm.Provider, error) {
			merged := base
			if name != "" && !strings.EqualFold(name, base.Provider) {
				merged.Provider = name
				merged.ProviderConfig = llm.DefaultProviderConfig()
			}
			if pc.APIKey != "" {
				merged.APIKey = pc.APIKey
			}
			if pc.Model != "" {
				merged.Model = pc.Model
			}
			scoped := *cfg
			scoped.LLM = merged
			return scoped.NewProvider()
		}, prompt))
	}

	srv := server.New(c, server.Config{
		Addr:         cfg.Server.Addr,
		MaxInputSize: cfg.MaxInputBytes,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, opts...)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logInfo("Serving on %s (max input %s)", cfg.Server.Addr, humanize.Bytes(uint64(cfg.MaxInputBytes)))
	if err := srv.ListenAndServe(ctx); err != nil {
		logError("%v", err)
		return err
	}
	return nil
}
