package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/quillpad/quillpad/internal/api"
	"github.com/quillpad/quillpad/internal/config"
	"github.com/quillpad/quillpad/internal/editor"
	"github.com/quillpad/quillpad/internal/remote"
	"github.com/quillpad/quillpad/internal/routing"
	"github.com/quillpad/quillpad/internal/ws"
)

func main() {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize WebSocket hub
	hub := ws.NewHub()

	client := remote.NewClient(cfg.RemoteURL, nil)

	// Initialize the editing session
	session := editor.NewSession(editor.Config{
		Client:      client,
		Navigator:   routing.NewMemory(""),
		Surface:     api.NewHubSurface(hub),
		QuietPeriod: cfg.QuietPeriod,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.LoadDocuments(ctx); err != nil {
		logger.Error("initial document load failed", "error", err)
		os.Exit(1)
	}

	// Initialize API server
	server := api.NewServer(api.ServerConfig{
		Session:       session,
		Hub:           hub,
		Logger:        logger,
		AllowedOrigin: cfg.CORSOrigin,
	})

	// Configure HTTP server with timeouts
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("starting server", "addr", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	_ = session.Close()
	logger.Info("stopped")
}
