package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// listener owns an http.Server and logs its lifecycle under name. Server and MetricsServer
// embed it and only differ in the handler they install.
type listener struct {
	name   string
	server *http.Server
	logger *slog.Logger
}

func newListener(name, host string, port int, logger *slog.Logger) listener {
	return listener{
		name:   name,
		logger: logger,
		server: &http.Server{
			Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (l *listener) GetHandler() http.Handler {
	return l.server.Handler
}

// Start serves until Shutdown is called. A graceful shutdown returns nil.
func (l *listener) Start(ctx context.Context) error {
	l.logger.InfoContext(ctx, "starting "+l.name, slog.String("addr", l.server.Addr))

	if err := l.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", l.name, err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx is done.
func (l *listener) Shutdown(ctx context.Context) error {
	l.logger.InfoContext(ctx, "shutting down "+l.name)
	return l.server.Shutdown(ctx)
}
