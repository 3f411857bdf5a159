package main

import (
	"context"
	"log/slog"
	"os"

	"teachjournal/internal/cli"
)

func main() {
	// a missing .env is fine; a malformed one is fatal
	if err := cli.LoadEnvFile(".env"); err != nil {
		slog.Error("Failed to load .env file", "error", err)
		os.Exit(1)
	}

	if err := cli.RunWorker(context.Background(), nil); err != nil {
		slog.Error("Worker failed", "error", err)
		os.Exit(1)
	}
}
