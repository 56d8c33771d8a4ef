// Package commands implements the CLI commands for transcript-clean.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/config"
	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "transcript-clean",
	Short: "Clean Yiddish transcripts of titles, notes and markers",
	Long: `transcript-clean strips non-spoken content from Yiddish and Hebrew
transcripts: headings, bracketed and parenthetical notes, seif markers,
editorial references and invisible characters. Each run reports what was
removed and a clean rate estimating how safe the removals were.

Examples:
  # Clean a Word document with the default profile
  transcript-clean clean shiur.docx

  # Titles only, structured output
  transcript-clean clean shiur.docx -P titles_only -f json

  # Pick processors directly
  transcript-clean clean notes.txt --processors title_style,whitespace

  # Compare two versions
  transcript-clean diff original.txt cleaned.txt

  # Serve the HTTP API
  transcript-clean serve --addr :8080`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/"+config.FileName+".yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "suppress progress output")
	flags.String("log-format", "text", "log format: text, json")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("log_format", flags.Lookup("log-format"))
}

func initConfig() {
	v := viper.GetViper()
	config.SetDefaults(v)

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(config.FileName)
		v.SetConfigType("yaml")
	}
	config.Bind(v)

	// Read config file (ignore error if not found)
	if err := v.ReadInConfig(); err == nil {
		logger.Debug("config file loaded", "path", v.ConfigFileUsed())
	}
}

// loadConfig binds the command's flags to their config keys, decodes the
// merged configuration and initializes logging.
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	for key, name := range bindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		logError("%v", err)
		return nil, err
	}
	if err := logger.Init(logger.Options{
		Debug: cfg.Debug,
		Quiet: cfg.Quiet,
		JSON:  cfg.LogFormat == "json",
	}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
