// Package main is the entry point for the lernkarten CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/f3rmion/lernkarten/cmd/lernkarten/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
