package server

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// waitForShutdown blocks until an interrupt or terminate signal is received,
// or the server fails to start. It returns the start error, if any.
func waitForShutdown(errc <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		slog.Info("Shutdown signal received", "signal", sig.String())
		return nil
	case err := <-errc:
		slog.Error("Server failed", "error", err)
		return err
	}
}
