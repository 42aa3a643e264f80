// Package server wires the gane components together and runs them: the
// credential store, token service and auth orchestration behind the HTTP API,
// plus the gRPC health listener. It handles signals and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gane/internal/logging"
	"github.com/dmitrijs2005/gane/internal/server/auth"
	"github.com/dmitrijs2005/gane/internal/server/config"
	"github.com/dmitrijs2005/gane/internal/server/metrics"
	"github.com/dmitrijs2005/gane/internal/server/services"
	"github.com/dmitrijs2005/gane/internal/server/users"

	gs "github.com/dmitrijs2005/gane/internal/server/grpc"
	hs "github.com/dmitrijs2005/gane/internal/server/http"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	handler        http.Handler
	metricsHandler http.Handler
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(c, logging.NewJSONLogger(os.Stdout, c.LogLevel))
}

func newApp(c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	repo := users.NewInMemoryRepository()
	us := users.NewService(repo, c.BcryptCost)

	tokens, err := auth.NewTokenService([]byte(c.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("token service init error: %w", err)
	}

	dummy, err := us.DummyHash()
	if err != nil {
		return nil, fmt.Errorf("dummy hash error: %w", err)
	}

	m := metrics.New()

	as := services.NewAuthService(us, tokens,
		services.TokenTTLs{Registered: c.RegisteredTokenTTL, Guest: c.GuestTokenTTL},
		services.WithDummyHash(dummy),
		services.WithIssueObserver(m.TokenIssued),
	)

	h := hs.NewHandler(as, logger, c.MaxBodyBytes)
	router := hs.NewRouter(h, m, logger)

	return &App{
		config:         c,
		logger:         logger,
		handler:        router,
		metricsHandler: hs.NewMetricsRouter(m.Handler()),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := hs.NewServer(app.config.EndpointAddrHTTP, app.handler, app.logger, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
		return err
	}
	return nil
}

// startMetricsServer keeps /metrics off the public API listener.
func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := hs.NewServer(app.config.MetricsAddr, app.metricsHandler, app.logger.With("listener", "metrics"), app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "metrics server failed", "error", err)
		cancelFunc()
		return err
	}
	return nil
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled, a termination signal arrives or one of
// the listeners fails. It returns the first listener error, if any.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	record := func(err error) {
		if err != nil {
			errOnce.Do(func() { firstErr = err })
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		record(app.startHTTPServer(ctx, cancelFunc))
	}()

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record(app.startGRPCServer(ctx, cancelFunc))
		}()
	}

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record(app.startMetricsServer(ctx, cancelFunc))
		}()
	}

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")

	return firstErr
}
