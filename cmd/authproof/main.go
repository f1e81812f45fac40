// File: cmd/authproof/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/kestrelqa/authproof-cli/cmd"
)

// main is the entry point of the application.
func main() {
	// Set up a context that listens for interrupt signals (SIGINT,
	// SIGTERM) for graceful shutdown of in-flight browser and mailbox
	// operations.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			// Graceful shutdown; the partial scenario was already logged.
			os.Exit(0)
		}
		os.Exit(1)
	}
}
