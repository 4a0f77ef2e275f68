// Package main provides the CLI entry point for reshape.
//
// Usage:
//
//	reshape run program.rs --table sales=sales.csv   # Run a program
//	reshape check program.rs                          # Parse and print commands
//	reshape repl --table sales=sales.csv              # Interactive session
//	reshape version                                   # Print version information
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
