package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jekyllgo/jekyllgo/pkg/build"
	"github.com/jekyllgo/jekyllgo/pkg/config"
	"github.com/jekyllgo/jekyllgo/pkg/writer"
)

var buildWarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

var (
	buildClean       bool
	buildIncremental bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the static site",
	Long: `Build resolves configuration, scans the source tree, renders every
document and layout, paginates post indexes, and writes the result to the
destination directory.

Example usage:
  jekyllgo build                # standard build
  jekyllgo build --clean        # remove stale destination entries first
  jekyllgo build --incremental  # skip outputs whose inputs are unchanged`,
	RunE: runBuildCommand,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVar(&buildClean, "clean", false, "remove destination entries no longer produced by this build")
	buildCmd.Flags().BoolVar(&buildIncremental, "incremental", false, "skip re-rendering outputs whose inputs are unchanged")
}

func runBuildCommand(_ *cobra.Command, _ []string) error {
	source := sourceDirOrDot()
	cfg, err := config.Resolve(source, cfgFile, environment)
	if err != nil {
		return fmt.Errorf("resolving configuration: %w", err)
	}
	if destDir != "" {
		cfg.Destination = destDir
	}
	if buildIncremental {
		cfg.Incremental = true
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "source: %s, destination: %s\n", cfg.Source, cfg.Destination)
	}

	if buildClean {
		// Everything outside keep_files is removed, so no output can be reused.
		cfg.Incremental = false
		if err := writer.Clean(cfg.Destination, nil, cfg.KeepFiles); err != nil && verbose {
			fmt.Fprintf(os.Stderr, "clean warning: %v\n", err)
		}
	}

	result, err := build.Run(cfg)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Printf("Build completed in %s\n", result.Duration.Round(time.Millisecond))
	fmt.Printf("  written: %d\n", result.Written)
	fmt.Printf("  skipped: %d\n", result.Skipped)
	if len(result.Warnings) > 0 {
		fmt.Println(buildWarningStyle.Render(fmt.Sprintf("  warnings: %d", len(result.Warnings))))
		if verbose {
			for _, w := range result.Warnings {
				fmt.Println(buildWarningStyle.Render(fmt.Sprintf("    - %s", w)))
			}
		}
	}
	return nil
}
