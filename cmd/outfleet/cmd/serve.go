package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/outfleet/outfleet/internal/config"
	"github.com/outfleet/outfleet/internal/constants"
	"github.com/outfleet/outfleet/internal/logger"
	"github.com/outfleet/outfleet/internal/output"
	"github.com/outfleet/outfleet/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long:  "Expose the account operations over an HTTP API",
	RunE:  serveRun,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func serveRun(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The server re-initializes logging for its environment; the CLI preset
	// from the root command is too quiet for a long-running process.
	logger.Initialize(constants.Development, cfg.GetLogLevel())

	acct, cfg, closer, err := newAccount(cmd)
	if err != nil {
		return err
	}
	defer closer()

	port := cfg.Port
	if servePort > 0 {
		port = servePort
	}

	router := server.NewRouter(acct, slog.Default(), cfg.RequestTimeout)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	// The server runs until a signal arrives; the root command's timeout
	// does not apply to it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	output.Info("Listening on :%d", port)

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		shutdownErr := srv.Shutdown(shutdownCtx)
		acct.Drain()
		return shutdownErr
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
