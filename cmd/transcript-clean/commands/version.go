package commands

import (
	"github.com/spf13/cobra"

	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/output"
	"github.com/Shloimy15e/clean-yiddish-transcripts/internal/version"
)

type versionOutput struct {
	version.Info `yaml:",inline"`
}

func (v *versionOutput) PlainText() string { return version.Full() }

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w, closeOut, err := openOutput(cmd)
		if err != nil {
			return err
		}
		defer closeOut()
		if err := w.Write(&versionOutput{version.Get()}); err != nil {
			return err
		}
		return w.Flush()
	},
}

func init() {
	outputFlags(versionCmd, output.FormatText)
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version.String()
}
