package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gsea-project/gsea-bench/cmd"
)

func main() {
	// Grandparent context to deal with OS interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
