package main

import (
	"flag"
	"log/slog"
	"os"

	"surveybench/internal/app"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config file (optional, env vars override)")
	flag.Parse()

	application, err := app.NewApplication(*cfgPath)
	if err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application exited with error", "error", err)
		os.Exit(1)
	}
}
