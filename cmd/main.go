package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/artyom-lobachev/bankledger/internal/httpapi"
	"github.com/artyom-lobachev/bankledger/internal/service/bank"
	"github.com/artyom-lobachev/bankledger/internal/storage/memory"
	pgstore "github.com/artyom-lobachev/bankledger/internal/storage/postgres"
	"github.com/artyom-lobachev/bankledger/internal/storage/snapshot"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logger (slog to stdout). Level via LOG_LEVEL; format via LOG_FORMAT (json|text, default json)
	logger := buildLoggerFromEnv()
	slog.SetDefault(logger)

	var (
		store   *memory.Store
		gw      bank.Gateway
		closeFn func()
	)

	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
		// Use the Postgres gateway when DATABASE_URL is provided
		pg, err := pgstore.Open(ctx, dsn)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		closeFn = pg.Close
		store, err = pg.LoadOrCreateEmpty(ctx)
		if err != nil {
			logger.Error("failed to load accounts from postgres", "err", err)
			pg.Close()
			os.Exit(1)
		}
		gw = pg
		logger.Info("storage backend: postgres", "accounts", store.Len())
	} else {
		// Default to the JSON snapshot file; BANK_FILE overrides the location
		path := strings.TrimSpace(os.Getenv("BANK_FILE"))
		if path == "" {
			path = "bank.json"
		}
		fileGw := snapshot.New(path)
		store = fileGw.LoadOrCreateEmpty()
		gw = fileGw
		logger.Info("storage backend: file", "path", path, "accounts", store.Len())
	}

	svc := bank.New(store, gw)

	addr := strings.TrimSpace(os.Getenv("ADDR"))
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.New(svc, gw, logger).Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bank ledger service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
		// Persist the in-memory state so a restart picks up where we left off
		if err := svc.Save(ctxShutdown); err != nil {
			logger.Error("final save failed", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLoggerFromEnv() *slog.Logger {
	level := parseLogLevel(os.Getenv("LOG_LEVEL"))
	format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
