// Package cli wires the service together behind cobra commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragserve/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "ragserve",
	Short: "Question answering over your own documents",
	Long: `ragserve ingests PDF and plain-text documents, indexes them as
embedded chunks, and answers questions against them using a local
Ollama instance for embeddings and generation.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	version = v
}
