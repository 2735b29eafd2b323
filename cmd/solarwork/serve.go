package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/warp/solarwork/api"
	"github.com/warp/solarwork/assistant"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

// runServe starts the server and blocks until SIGINT/SIGTERM, then drains
// active requests for up to http.shutdown_timeout.
func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, db, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	var ai *assistant.Client
	if cfg.Assistant.Configured() {
		ai = assistant.NewClient(cfg.Assistant, log)
	} else {
		log.Info("assistant not configured, /api/assistant/ask will answer 503")
	}

	handler := api.NewHandler(t, ai, log)
	router := api.NewRouter(handler, cfg.HTTP.AllowedOrigins)

	backups := api.NewBackupScheduler(t, cfg.Backup, log)
	backups.Start()
	defer backups.Stop()

	server := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("solarwork http server", "address", server.Addr, "db", cfg.DBPath)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", "error", err)
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
	log.Info("server stopped")
	return nil
}
