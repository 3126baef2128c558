package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kirinyoku/deskgo/internal/backend"
	"github.com/kirinyoku/deskgo/internal/config"
	"github.com/kirinyoku/deskgo/internal/events"
	"github.com/kirinyoku/deskgo/internal/postgres"
	"github.com/kirinyoku/deskgo/internal/redis"
	postgresrepo "github.com/kirinyoku/deskgo/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/deskgo/internal/repository/redis"
	"github.com/kirinyoku/deskgo/internal/service"
	"github.com/kirinyoku/deskgo/internal/service/admin"
	"github.com/kirinyoku/deskgo/internal/service/auth"
	"github.com/kirinyoku/deskgo/internal/service/bookings"
	"github.com/kirinyoku/deskgo/internal/service/resources"
	"github.com/kirinyoku/deskgo/internal/service/workspaces"
	"github.com/kirinyoku/deskgo/internal/telemetry"
	httpgin "github.com/kirinyoku/deskgo/internal/transport/http/gin"
	"github.com/kirinyoku/deskgo/internal/workspace"
)

const serviceName = "deskgo"

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server

	pool   *pgxpool.Pool
	rdb    *goredis.Client
	pubsub *redisrepo.FloorPlanPubSub
	svcs   *service.Services

	shutdownTracing func(context.Context) error
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx := context.Background()

	shutdownTracing := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: serviceName,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
	}, logger)

	rdb, err := redis.New(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	var (
		pool  *pgxpool.Pool
		store workspace.Store
	)
	switch cfg.Workspace.Store {
	case config.StorePostgres:
		pool, err = postgres.New(ctx, postgres.Config{DSN: cfg.Postgres.DSN()})
		if err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
		store = workspace.NewPGStore(postgresrepo.NewStore(pool))
	default:
		logger.Warn("workspaces are kept in memory; they are lost on restart and not shared between instances")
		store = workspace.NewMemStore()
	}

	// Initialize repositories
	cache := redisrepo.NewCache(rdb)
	pubsub := redisrepo.NewFloorPlanPubSub(rdb)
	sessions := redisrepo.NewSessionStore(rdb, cfg.Session.TTL)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "login", cfg.Session.LoginRateLimit, time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 24*time.Hour)
	publisher := events.NewPublisher(cfg.AMQP.URL, logger.With(slog.String("component", "events")))

	api := backend.New(backend.Config{
		BaseURL:          cfg.Backend.BaseURL,
		Timeout:          cfg.Backend.Timeout,
		FloorPlanTimeout: cfg.Backend.FloorPlanTimeout,
	}, logger.With(slog.String("component", "backend")))

	// Initialize services
	svcs := &service.Services{
		Auth: auth.New(api, sessions, limiter, logger),
		Workspaces: workspaces.New(api, store, workspaces.Deps{
			Cache:    cache,
			Notifier: pubsub,
			Locks:    idempotencyStore,
			Events:   publisher,
		}, workspaces.Config{
			FloorPlanCacheTTL: cfg.Workspace.FloorPlanCacheTTL,
			IdleTTL:           cfg.Workspace.TTL,
		}, logger),
		Bookings:  bookings.New(api, cache, logger),
		Resources: resources.New(api, cache, resources.Config{}, logger),
		Admin: admin.New(api, struct {
			*redisrepo.Cache
			*redisrepo.FloorPlanPubSub
		}{cache, pubsub}, logger),
	}

	// Initialize Gin router
	router := httpgin.NewRouter(svcs, sessions, idempotencyStore, httpgin.Options{
		CookieSecure: cfg.Server.CookieSecure,
		SessionTTL:   cfg.Session.TTL,
	}, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           otelhttp.NewHandler(router, serviceName),
			ReadHeaderTimeout: 10 * time.Second,
		},
		pool:            pool,
		rdb:             rdb,
		pubsub:          pubsub,
		svcs:            svcs,
		shutdownTracing: shutdownTracing,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Floor plan changes saved by other instances
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, a.svcs.Workspaces.FloorPlanChanged)
		if err != nil && gCtx.Err() == nil {
			return fmt.Errorf("floor plan subscription: %w", err)
		}
		return nil
	})

	// Idle workspace janitor
	g.Go(func() error {
		return a.svcs.Workspaces.RunJanitor(gCtx, a.cfg.Workspace.JanitorInterval)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	err := g.Wait()
	a.close()
	return err
}

func (a *App) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.shutdownTracing(ctx); err != nil {
		a.logger.Warn("tracer shutdown", "error", err)
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if err := a.rdb.Close(); err != nil {
		a.logger.Warn("redis close", "error", err)
	}
}
