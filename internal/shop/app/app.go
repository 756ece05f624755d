package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/shopcart/internal/shop/denylist"
	httpapi "github.com/aussiebroadwan/shopcart/internal/shop/http"
	"github.com/aussiebroadwan/shopcart/internal/shop/service"
	"github.com/aussiebroadwan/shopcart/internal/shop/store"
	"github.com/aussiebroadwan/shopcart/pkg/cryptox"
	"github.com/aussiebroadwan/shopcart/pkg/httpx"
	"github.com/aussiebroadwan/shopcart/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// BuildVersion is overridden at build time via -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application encapsulates the shop service with all its dependencies.
type Application struct {
	cfg       Config
	logger    *slog.Logger
	logCloser io.Closer

	// Core dependencies
	db       store.Store
	redis    redis.UniversalClient // nil without REDIS_URL
	denylist denylist.Denylist
	registry *prometheus.Registry

	// Services
	credentialService   *service.CredentialService
	tokenAuthority      *service.TokenAuthority
	cartService         *service.CartService
	productService      *service.ProductService
	housekeepingService *service.HousekeepingService // nil with a redis denylist

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	if err := cfg.ValidateServe(); err != nil {
		return nil, err
	}

	logger, closer, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	app := &Application{
		cfg:       cfg,
		logger:    logger,
		logCloser: closer,
		registry:  prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx := context.Background()
	if err := app.initDatabase(ctx); err != nil {
		_ = app.closeBackends()
		return nil, err
	}
	if err := app.initDenylist(ctx); err != nil {
		_ = app.closeBackends()
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.closeBackends()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

func newLogger(cfg Config) (*slog.Logger, io.Closer, error) {
	return slogx.New(slogx.Config{
		Service: "shop",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		File:    cfg.LogFile,
	})
}

// Handler exposes the fully wired router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	if app.housekeepingService != nil {
		app.housekeepingService.Start()
	}

	app.logger.Info("shop service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"driver", app.cfg.DatabaseDriver,
		"rate_limits", app.cfg.RateLimits,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.closeBackends()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, then releases every backend.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down shop service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.housekeepingService != nil {
		app.housekeepingService.Stop()
	}

	app.logger.Info("shop service stopped")
	return app.closeBackends()
}

func (app *Application) closeBackends() error {
	var errs []error
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			errs = append(errs, err)
		}
	}
	if app.logCloser != nil {
		errs = append(errs, app.logCloser.Close())
	}
	return errors.Join(errs...)
}

// initDatabase opens the configured store and applies migrations.
func (app *Application) initDatabase(ctx context.Context) error {
	db, collector, err := openStore(ctx, app.cfg, app.logger)
	if err != nil {
		return err
	}
	app.db = db

	if collector != nil {
		app.registry.MustRegister(collector)
	}

	if err := db.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initDenylist connects to redis when REDIS_URL is set. Without it revoked
// tokens are tracked in process and swept by the housekeeping service.
func (app *Application) initDenylist(ctx context.Context) error {
	if app.cfg.RedisURL == "" {
		mem := denylist.NewMemory()
		app.denylist = mem
		app.housekeepingService = service.NewHousekeepingService(app.logger, app.cfg.HousekeepingInterval, mem)
		app.logger.Info("token denylist in memory; revocations are not shared between instances")
		return nil
	}

	opts, err := redis.ParseURL(app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("connect to redis: %w", err)
	}

	app.redis = client
	app.denylist = denylist.NewRedis(client)
	app.logger.Info("token denylist backed by redis", "addr", opts.Addr)
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() error {
	hasher, err := cryptox.NewHasher(app.cfg.BcryptCost, app.cfg.HashWorkers)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	metrics := service.NewMetrics(app.registry)

	app.credentialService = &service.CredentialService{
		Store:   app.db,
		Hasher:  hasher,
		Metrics: metrics,
	}

	app.tokenAuthority, err = service.NewTokenAuthority(service.TokenConfig{
		Secret: []byte(app.cfg.JWTSecret),
		Issuer: app.cfg.JWTIssuer,
		Leeway: app.cfg.TokenLeeway,
	}, app.credentialService, app.denylist, metrics)
	if err != nil {
		return fmt.Errorf("failed to initialize token authority: %w", err)
	}

	app.cartService = &service.CartService{Store: app.db}
	app.productService = &service.ProductService{Store: app.db}
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.CredentialService = app.credentialService
	router.TokenAuthority = app.tokenAuthority
	router.CartService = app.cartService
	router.ProductService = app.productService
	router.RateLimits = app.cfg.RateLimits
	router.Metrics = httpx.NewHTTPMetrics(app.registry, "shop")
	router.Gatherer = app.registry
	if r, ok := app.denylist.(*denylist.Redis); ok {
		router.Denylist = r
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
