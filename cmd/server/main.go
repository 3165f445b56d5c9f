package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfrund/instagrid/internal/config"
	"github.com/nfrund/instagrid/internal/logging"
	"github.com/nfrund/instagrid/internal/server"
)

func main() {
	cfg := config.New()
	logging.New(cfg.LogFormat, cfg.LogLevel)

	// Background work started while booting lives until Shutdown, not until
	// this context is cancelled.
	s, err := server.New(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}

	if err := s.Start(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}
