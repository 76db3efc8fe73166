package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AngelCh415/voyage-analytics/internal/analytics"
	"github.com/AngelCh415/voyage-analytics/internal/config"
	"github.com/AngelCh415/voyage-analytics/internal/httpx"
	"github.com/AngelCh415/voyage-analytics/internal/ingest"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	be := ingest.NewBackend(cl, logger, cfg)
	svc := analytics.NewService(be, logger, cfg)

	r := httpx.NewRouter(logger, svc)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		logger.Error("listen", slog.String("err", err.Error()))
		os.Exit(1)
	}
	logger.Info("starting server",
		slog.String("port", cfg.Port),
		slog.String("backend", cfg.BackendURL),
		slog.String("tz", cfg.Location.String()))
	if err := serve(ctx, srv, ln, logger); err != nil {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// serve runs srv on ln until ctx is done, then returns once in-flight
// requests have drained or the shutdown timeout expires.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", slog.String("err", err.Error()))
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
