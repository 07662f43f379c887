// Command lslint lints scripts: it parses, analyzes and optionally
// optimizes each input, reports diagnostics on stderr, and can emit the
// pretty-printed source or a debug tree dump on stdout.
package main

import (
	"fmt"
	"os"

	"github.com/secondlife/tailslide/internal/config"
)

func main() {
	cfg := config.Load()
	root := newRootCmd(cfg)
	root.AddCommand(newRunsCmd(cfg))
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
