// Package runtime runs the worker process: it starts the queue consumers,
// serves the health probes and shuts everything down on SIGINT or SIGTERM.
package runtime

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
)

const (
	defaultAddress           = ":8080"
	defaultReadTimeout       = 5 * time.Second
	defaultWriteTimeout      = 10 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultReadHeaderTimeout = 2 * time.Second
	defaultShutdownTimeout   = 30 * time.Second
)

// Hook is a startup or shutdown step.
type Hook func(context.Context) error

type config struct {
	handler         http.Handler
	logger          *slog.Logger
	baseCtx         context.Context
	address         string
	startupHooks    []Hook
	shutdownHooks   []Hook
	shutdownTimeout time.Duration
}

// Option configures Run.
type Option func(*config)

// WithAddress sets the listen address of the probe server.
func WithAddress(addr string) Option {
	return func(c *config) {
		if addr != "" {
			c.address = addr
		}
	}
}

// WithHandler sets the HTTP handler, usually health.Router.
func WithHandler(h http.Handler) Option {
	return func(c *config) {
		if h != nil {
			c.handler = h
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithShutdownTimeout bounds the server shutdown and all shutdown hooks together.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// WithStartupHook registers a step run before the server listens.
// Hooks run in registration order; the first error aborts Run.
func WithStartupHook(fn Hook) Option {
	return func(c *config) {
		if fn != nil {
			c.startupHooks = append(c.startupHooks, fn)
		}
	}
}

// WithShutdownHook registers a cleanup step. Hooks run in registration
// order after the server stopped, and every hook runs even when one fails.
//
//	runtime.WithShutdownHook(queue.Stop),
//	runtime.WithShutdownHook(db.Shutdown(pool)),
func WithShutdownHook(fn Hook) Option {
	return func(c *config) {
		if fn != nil {
			c.shutdownHooks = append(c.shutdownHooks, fn)
		}
	}
}

// WithContext sets the parent of the signal context. Cancelling it stops Run.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}

// Run blocks until a signal arrives, the base context ends or the server fails.
func Run(opts ...Option) error {
	cfg := &config{
		handler:         http.NotFoundHandler(),
		logger:          slog.New(slog.DiscardHandler),
		baseCtx:         context.Background(),
		address:         defaultAddress,
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger

	ctx, cancel := signal.NotifyContext(cfg.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, hook := range cfg.startupHooks {
		if err := hook(ctx); err != nil {
			logger.Error("startup hook failed", slog.Any("error", err))
			// Components that did start still need their cleanup.
			return errors.Join(err, shutdown(cfg, nil))
		}
	}

	server := &http.Server{
		Addr:              cfg.address,
		Handler:           cfg.handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return errors.Join(err, shutdown(cfg, nil))
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
	}

	return errors.Join(serveErr, shutdown(cfg, server))
}

func shutdown(cfg *config, server *http.Server) error {
	logger := cfg.logger
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer cancel()

	var errs []error
	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for _, hook := range cfg.shutdownHooks {
		if err := hook(ctx); err != nil {
			errs = append(errs, err)
			logger.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		logger.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}
	logger.Info("shutdown completed")
	return nil
}
