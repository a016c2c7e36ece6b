package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/sheetrecon/internal/config"
	"github.com/JonMunkholm/sheetrecon/internal/core"
	"github.com/JonMunkholm/sheetrecon/internal/ingest"
	"github.com/JonMunkholm/sheetrecon/internal/logging"
	"github.com/JonMunkholm/sheetrecon/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"max_file_size", cfg.Upload.MaxFileSize,
		"encodings", cfg.Ingest.Encodings,
		"operation_max_wait", cfg.Operation.MaxWait,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	reader, err := ingest.NewReader(ingest.Options{
		Encodings:  cfg.Ingest.Encodings,
		SniffLines: cfg.Ingest.SniffLines,
		Logger:     logger,
	})
	if err != nil {
		slog.Error("failed to create reader", "error", err)
		os.Exit(1)
	}

	service := core.NewService(reader,
		core.WithLogger(logger),
		core.WithOperationWait(cfg.Operation.MaxWait),
	)
	server := web.NewServer(service, cfg)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Let a load or comparison that already entered the gate finish.
		if st := service.Status().Gate; st.Busy {
			slog.Info("waiting for running operation", "operation", st.Operation)
			if err := service.WaitIdle(shutdownCtx); err != nil {
				slog.Warn("operation did not finish in time", "error", err)
			}
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
