package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/config"
	rediscache "github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/caching/redis"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/catalog"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/http/handlers"
	apimw "github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/http/middleware"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/http/router"
	rabbitpub "github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/store/memory"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/eventapi/store/postgres"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/logger"
	"github.com/baechuer/real-time-ressys/services/event-console/internal/tracing"
)

var version = "dev"

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

type dbPinger struct{ db *sql.DB }

func (p dbPinger) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

// App holds all dependencies for the service.
type App struct {
	Config *config.Server
	Server *http.Server

	DB        *sql.DB
	Cache     *rediscache.Client
	Publisher *rabbitpub.Publisher
}

func (a *App) Close() {
	if a.Publisher != nil {
		_ = a.Publisher.Close()
	}
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func main() {
	logger.Init()

	cfg, err := config.LoadServer()
	if err != nil {
		zlog.Fatal().Err(err).Msg("config load failed")
	}
	logger.Configure(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "eventapi",
		ServiceVersion: version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("tracing init failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(sctx)
	}()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("app init failed")
	}
	defer app.Close()

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.Server.Shutdown(sctx)
	}()

	zlog.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
	if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zlog.Fatal().Err(err).Msg("server crashed")
	}
}

func NewApp(ctx context.Context, cfg *config.Server) (*App, error) {
	app := &App{Config: cfg}
	deps := map[string]handlers.Pinger{}

	// 1) Infrastructure
	var store catalog.Store = memory.New()
	if cfg.DatabaseURL != "" {
		db, err := openDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		app.DB = db
		repo := postgres.New(db)
		if err := repo.Migrate(ctx); err != nil {
			app.Close()
			return nil, err
		}
		store = repo
		deps["postgres"] = dbPinger{db: db}
	} else {
		zlog.Warn().Msg("DATABASE_URL empty: using in-memory store")
	}

	var cache catalog.Cache
	if cfg.RedisURL != "" {
		c, err := rediscache.New(cfg.RedisURL)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Cache = c
		cache = c
		deps["redis"] = c
		zlog.Info().Dur("ttl", cfg.CacheTTL).Msg("redis cache ready")
	}

	var pub catalog.EventPublisher = catalog.NoopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Publisher = p
		pub = p
		zlog.Info().Str("exchange", p.Exchange()).Msg("rabbit publisher ready")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: change notifications will not be published")
	}

	// 2) Application
	svc := catalog.New(store, sysClock{}, pub, cache, cfg.CacheTTL)

	// 3) Transport
	h := handlers.NewEventsHandler(svc)
	z := handlers.NewHealthHandler(deps)
	var auth *apimw.AuthMiddleware
	if cfg.JWTSecret != "" {
		auth = apimw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer)
	} else {
		zlog.Warn().Msg("JWT_SECRET empty: mutating routes are unauthenticated")
	}

	// 4) Router + server
	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router.New(h, auth, z, cfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
	return app, nil
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	if u, err := url.Parse(dsn); err == nil {
		zlog.Info().
			Str("db_user", u.User.Username()).
			Str("db_host", u.Host).
			Str("db_db", u.Path).
			Msg("db config loaded")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
