// Package main is the entry point for the transcript-clean CLI.
package main

import (
	"os"

	"github.com/Shloimy15e/clean-yiddish-transcripts/cmd/transcript-clean/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
