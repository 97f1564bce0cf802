// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set by main.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "readme-stats",
	Short: "A CLI tool to keep a GitHub profile README up to date.",
	Long: `readme-stats collects a user's repositories, organizations, releases and
contribution activity from GitHub and rewrites the marked sections of a
profile README. The numbers behind the README are also written as JSON.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = Version
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
