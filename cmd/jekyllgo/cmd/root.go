// Package cmd provides the CLI commands for jekyllgo.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// cfgFile is an explicit config path passed via --config (repeatable).
	cfgFile []string

	// sourceDir overrides the site source directory.
	sourceDir string

	// destDir overrides the output directory.
	destDir string

	// environment selects the `_config.<env>.yml` overlay, per spec.md §4.1.
	environment string

	// verbose enables verbose output.
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "jekyllgo",
	Short: "A Jekyll-compatible static site generator",
	Long: `jekyllgo builds a static site from Markdown/HTML source with YAML
front matter, Liquid templates, and Jekyll's permalink/collection/defaults
conventions.

Example usage:
  jekyllgo build                  # Build the site once
  jekyllgo build --incremental    # Skip outputs whose inputs are unchanged
  jekyllgo new "My Post"          # Scaffold a new post
  jekyllgo preview _posts/2026-01-01-hello.md  # Render a post's Markdown in the terminal`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
}

// Execute adds all child commands to the root command and runs it. Called
// once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

// sourceDirOrDot returns the --source flag value, defaulting to the
// current directory the way every subcommand that reads the source tree
// before config resolution does.
func sourceDirOrDot() string {
	if sourceDir == "" {
		return "."
	}
	return sourceDir
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&cfgFile, "config", "c", nil, "config file path (repeatable; default: auto-discover _config.yml)")
	rootCmd.PersistentFlags().StringVarP(&sourceDir, "source", "s", "", "source directory (default: config's `source`, else .)")
	rootCmd.PersistentFlags().StringVarP(&destDir, "destination", "d", "", "output directory (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&environment, "environment", "e", "", "environment name, loads _config.<env>.yml if present")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	if verbose {
		fmt.Fprintln(os.Stderr, "verbose mode enabled")
	}
}
