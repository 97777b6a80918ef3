// Package main provides the entry point for the jekyllgo CLI.
package main

import (
	"fmt"
	"os"

	"github.com/jekyllgo/jekyllgo/cmd/jekyllgo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
