package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/fieldcrypt/internal/app"
	"github.com/allisson/fieldcrypt/internal/config"
)

const shutdownTimeout = 30 * time.Second

// lifecycle is implemented by the API and metrics listeners.
type lifecycle interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// RunServer serves the customers API, plus metrics when enabled, until SIGINT/SIGTERM or
// a listener failure. With KEYSET_VERIFY_ON_STARTUP every keyset is resolved first.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting fieldcrypt", slog.String("version", version))

	defer func() {
		if err := container.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("container shutdown failed", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.KeysetVerifyOnStartup {
		keyring, err := container.Keyring()
		if err != nil {
			return fmt.Errorf("load keysets: %w", err)
		}
		if err := keyring.VerifyAll(ctx); err != nil {
			return fmt.Errorf("verify keysets: %w", err)
		}
	}

	api, err := container.HTTPServer(ctx)
	if err != nil {
		return fmt.Errorf("build api server: %w", err)
	}
	listeners := []lifecycle{api}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("build metrics server: %w", err)
	}
	if metricsServer != nil {
		listeners = append(listeners, metricsServer)
	}

	return serve(ctx, logger, shutdownTimeout, listeners...)
}

// serve starts every listener and stops all of them once ctx is done or any Start fails.
// The first start failure is returned, joined with any shutdown errors.
func serve(ctx context.Context, logger *slog.Logger, timeout time.Duration, listeners ...lifecycle) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, l := range listeners {
		g.Go(func() error { return l.Start(gctx) })
	}

	<-gctx.Done()
	if ctx.Err() != nil {
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var errs []error
	for _, l := range listeners {
		if err := l.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown: %w", err))
		}
	}
	if err := g.Wait(); err != nil {
		logger.Error("listener failed", slog.Any("error", err))
		errs = append([]error{err}, errs...)
	}
	return errors.Join(errs...)
}
