package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/matt-mccartney/AvnetScraper/cmd"
	"github.com/matt-mccartney/AvnetScraper/internal/observability"
)

func main() {
	// Local development keeps secrets like the subscription key in a .env
	// file; in other environments the file is simply absent.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
