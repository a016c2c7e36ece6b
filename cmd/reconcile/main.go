// Command reconcile compares an ALTERDATA export with a SANTRI export and
// prints the documents missing from each side.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

// Exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitDifferences = 2
)

func main() {
	// A missing .env is fine; the environment and defaults still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	a := newApp(os.Stdout, os.Stderr)
	err := a.execute(ctx, args)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errDifferences):
		return exitDifferences
	default:
		fmt.Fprintln(os.Stderr, "error:", a.describe(err))
		return exitError
	}
}
