package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jekyllgo/jekyllgo/pkg/build"
	"github.com/jekyllgo/jekyllgo/pkg/config"
	"github.com/jekyllgo/jekyllgo/pkg/watch"
)

const serverReadHeaderTimeout = 10 * time.Second

var (
	servePort  int
	serveHost  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build and serve locally, rebuilding on change",
	Long: `serve builds the site once, starts an HTTP server over the
destination directory, and (unless --watch=false) rebuilds whenever a
source file changes.

Example usage:
  jekyllgo serve              # serve on localhost:4000, watching for changes
  jekyllgo serve -p 3000      # serve on localhost:3000
  jekyllgo serve --watch=false  # serve without rebuilding on change`,
	RunE: runServeCommand,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 4000, "port to serve on")
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "host to serve on")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "rebuild automatically when source files change")
}

func runServeCommand(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nshutting down...")
		cancel()
	}()

	source := sourceDirOrDot()
	cfg, err := config.Resolve(source, cfgFile, environment)
	if err != nil {
		return fmt.Errorf("resolving configuration: %w", err)
	}
	if destDir != "" {
		cfg.Destination = destDir
	}

	if _, err := build.Run(cfg); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}
	fmt.Printf("Built site into %s\n", cfg.Destination)

	if serveWatch {
		changes := make(chan watch.ChangeSet, 1)
		go func() {
			if err := watch.Watch(ctx, cfg.Source, cfg.Destination, changes); err != nil && verbose {
				fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
			}
		}()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case set := <-changes:
					fmt.Printf("\nrebuilding (%d changed)...\n", len(set.Paths))
					start := time.Now()
					freshCfg, err := config.Resolve(source, cfgFile, environment)
					if err != nil {
						fmt.Fprintf(os.Stderr, "rebuild failed: %v\n", err)
						continue
					}
					if destDir != "" {
						freshCfg.Destination = destDir
					}
					result, err := build.Run(freshCfg)
					if err != nil {
						fmt.Fprintf(os.Stderr, "rebuild failed: %v\n", err)
						continue
					}
					fmt.Printf("rebuilt %d files in %s\n", result.Written, time.Since(start).Round(time.Millisecond))
				}
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", serveHost, servePort)
	server := &http.Server{
		Addr:              addr,
		Handler:           http.FileServer(http.Dir(cfg.Destination)),
		ReadHeaderTimeout: serverReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		fmt.Printf("Serving at http://%s\n", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}
}
