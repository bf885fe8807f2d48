package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/katalvlaran/molnet/internal/httpapi"
	"github.com/katalvlaran/molnet/internal/metrics"
	"github.com/katalvlaran/molnet/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for serve command
	listenAddr string
	noStore    bool
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve network generation over HTTP",
	Long: `Serve exposes the pipeline as a JSON API:

  POST /v1/networks        generate (body: matrix, radii, top_k, min_score, iterations, save)
  GET  /v1/networks        list stored runs
  GET  /v1/networks/{id}   load a stored run
  POST /v1/neighbors       ranked neighbors of one row
  GET  /healthz            liveness
  GET  /metrics            Prometheus metrics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().BoolVar(&noStore, "no-store", false, "Disable the run database")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if listenAddr != "" {
		cfg.Server.Addr = listenAddr
	}

	var runs httpapi.RunStore
	if !noStore {
		s, err := store.Open(cfg.Store.DBPath)
		if err != nil {
			return err
		}
		defer s.Close()
		runs = s
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpapi.New(cfg, runs, metrics.NewCollector("molnet"), logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr), zap.Bool("store", runs != nil))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
