package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"kidcalc/internal/gamification"
	"kidcalc/internal/observability"
	"kidcalc/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

var serveAddr string

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if serveAddr != "" {
		a.cfg.Server.Addr = serveAddr
	}

	telemetryShutdown, err := initTelemetry(ctx, a.cfg.Telemetry, cmd.Root().Version)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := telemetryShutdown(ctx); err != nil {
			observability.Logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	opts, err := a.sessionOptions()
	if err != nil {
		return err
	}
	sess := a.newSession(ctx, opts)
	defer sess.Close(context.Background())

	if err := gamification.RegisterMetrics(observability.Registry, sess.Engine()); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           server.NewRouter(server.Options{Session: sess, CORSOrigins: a.cfg.Server.CORSOrigins}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", srv.Addr),
			zap.String("data_dir", a.cfg.Storage.Dir),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	observability.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
