// Package cmd implements the fluentkeys CLI: a cobra root command plus the
// extract subcommand that drives one full run of the extractor.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:     "fluentkeys",
	Short:   "Keep Fluent translation files in sync with the i18n keys used in Python source",
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to an HCL config file")
	rootCmd.AddCommand(extractCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
