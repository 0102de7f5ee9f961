package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/silice-dev/silice/internal/cli"
)

var version = "0.3.0-dev"

func main() {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	})))

	if err := cli.NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	if os.Getenv("SILICE_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
