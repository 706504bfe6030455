package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/metastamp/server/internal/auth"
	"codeberg.org/metastamp/server/internal/botdefense"
	"codeberg.org/metastamp/server/internal/buffer"
	"codeberg.org/metastamp/server/internal/config"
	"codeberg.org/metastamp/server/internal/logger"
	"codeberg.org/metastamp/server/internal/notifications"
	ws "codeberg.org/metastamp/server/internal/websocket"
	"codeberg.org/metastamp/server/metastamp/content"
	"codeberg.org/metastamp/server/metastamp/creators"
	"codeberg.org/metastamp/server/metastamp/usage"
)

const (
	// how often the flusher writes buffered touches to Postgres
	bufferFlushInterval = 5 * time.Second

	// how often expired crawler DNS verdicts are dropped
	crawlerCacheInterval = 10 * time.Minute
)

type initializer interface {
	Initialize(ctx context.Context) error
}

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	contentRepo := content.NewRepository(db)
	creatorRepo := creators.NewRepository(db)
	notificationSvc := notifications.New(db)

	for _, table := range []initializer{creatorRepo, contentRepo, notificationSvc} {
		if err := table.Initialize(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	touchBuffer, err := buffer.NewTouchBuffer(cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize redis buffer: %w", err)
	}

	hub := ws.NewHub()
	events := newActivity(hub, notificationSvc, contentRepo)

	usageRepo := usage.NewRepository(db, contentRepo, cfg.UsageRatePerSecond).WithPublisher(events)
	if err := usageRepo.Initialize(ctx); err != nil {
		touchBuffer.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// drains node-reported touches into content counters
	flusher := buffer.NewFlusher(touchBuffer, events, bufferFlushInterval)

	services, err := InitializeServices(ctx, cfg, db, contentRepo, creatorRepo)
	if err != nil {
		touchBuffer.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		db.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	botDefenseConfig := botdefense.DefaultConfig()
	botDefenseConfig.Enabled = cfg.BotDefense
	botDefenseStore := botdefense.NewStore(touchBuffer.Client(), botDefenseConfig)
	botDefense := botdefense.New(botDefenseConfig, botDefenseStore).
		WithCrawlReporter(newCrawlBiller(contentRepo, services.Storage, touchBuffer, cfg.TouchRate))

	botDefense.StartCacheCleaner(ctx, crawlerCacheInterval)

	logger.Info("bot defense initialized",
		"enabled", botDefenseConfig.Enabled,
		"rate_limit", botDefenseConfig.RateLimit,
		"honeypot_paths", len(botDefenseConfig.HoneypotPaths),
	)

	providerConfig := auth.ProviderConfigFromEnv()
	if providerConfig.BaseURL == "" {
		providerConfig.BaseURL = cfg.BaseURL
	}

	providers, err := auth.InitializeProviders(providerConfig)
	switch {
	case err == nil:
		logger.Info("OAuth providers initialized", "providers", providers)
	case stderrors.Is(err, auth.ErrNoProviders), stderrors.Is(err, auth.ErrSessionSecret):
		// the API stays usable with tokens issued elsewhere
		logger.Warn("OAuth sign-in disabled", "reason", err.Error())
	default:
		touchBuffer.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		db.Close()
		return nil, fmt.Errorf("failed to initialize OAuth providers: %w", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		db:            db,
		config:        cfg,
		contentRepo:   contentRepo,
		usageRepo:     usageRepo,
		creatorRepo:   creatorRepo,
		notifications: notificationSvc,
		services:      services,
		hub:           hub,
		router:        gin.Default(),
		buffer:        touchBuffer,
		flusher:       flusher,
		providers:     providers,
		botDefense:    botDefense,
	}

	if err := RegisterRoutes(server.router, server); err != nil {
		touchBuffer.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		db.Close()
		return nil, err
	}

	return server, nil
}
