// Package main is the entry point of the BiteBurst league service.
//
// The service renders weekly league leaderboards: users land on a
// per-week, per-tier board the first time they look at it, weekly XP is
// aggregated from the event log at read time, and the ranking is
// deterministic from day one of the week.
//
// The layout follows Clean Architecture / DDD:
//   - Domain: week windows, tiers, rosters, ranking rules
//   - Application: the leaderboard query and opt-out command
//   - Infrastructure: PostgreSQL repositories, Redis ranking cache
//   - Interface: REST API
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/biteburst/biteburst-leagues/config"
	"github.com/biteburst/biteburst-leagues/internal/application/command"
	"github.com/biteburst/biteburst-leagues/internal/application/query"
	"github.com/biteburst/biteburst-leagues/internal/infrastructure/persistence/postgres"
	"github.com/biteburst/biteburst-leagues/internal/infrastructure/persistence/redis"
	httpserver "github.com/biteburst/biteburst-leagues/internal/interface/http"
	"github.com/biteburst/biteburst-leagues/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting BiteBurst league service",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	log.Info("connecting to database")
	dbConn, err := postgres.Connect(ctx, cfg.Database.URL, postgres.Settings{
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.MigrateOnStart {
		log.Info("running database migrations")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		status, err := migrator.Status(ctx)
		if err != nil {
			log.Warn("failed to get migration status", logger.Err(err))
		} else {
			applied := 0
			for _, m := range status {
				if m.IsApplied {
					applied++
				}
			}
			log.Info("migrations completed",
				logger.Int("applied", applied),
				logger.Int("total", len(status)))
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (optional ranking cache)
	// ─────────────────────────────────────────────────────────────────────────
	var rankingCache query.RankingCache
	var redisCache *redis.Cache

	if !cfg.Redis.Disabled && cfg.Leaderboard.CacheEnabled {
		log.Info("connecting to Redis")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			// Redis is an accelerator, not a dependency: degrade to
			// uncached reads instead of refusing to start.
			log.Warn("failed to connect to Redis, ranking cache disabled", logger.Err(err))
		} else {
			defer redisCache.Close()
			rankingCache = redis.NewRankingCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	userRepo := postgres.NewUserRepository(dbConn)
	boardRepo := postgres.NewBoardRepository(dbConn)
	xpRepo := postgres.NewXPEventRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	leaderboardQuery := query.NewGetLeaderboardHandler(userRepo, boardRepo, xpRepo, rankingCache, log)
	setOptOutCmd := command.NewSetOptOutHandler(userRepo, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins

	httpDeps := httpserver.Dependencies{
		GetLeaderboardHandler: leaderboardQuery,
		SetOptOutHandler:      setOptOutCmd,
		Logger:                log,
		HealthChecker:         &storeHealthChecker{db: dbConn},
	}

	server := httpserver.NewServer(httpConfig, httpDeps)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("BiteBurst league service is running",
		logger.String("http_address", server.Address()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	}

	log.Info("starting graceful shutdown",
		logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ADAPTERS
// ══════════════════════════════════════════════════════════════════════════════

// storeHealthChecker reports readiness from the backing stores. Redis is
// optional and never fails the check; only PostgreSQL is load-bearing.
type storeHealthChecker struct {
	db *postgres.Connection
}

func (h *storeHealthChecker) Ready(ctx context.Context) error {
	if h.db == nil {
		return errors.New("database not configured")
	}
	if err := h.db.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}
