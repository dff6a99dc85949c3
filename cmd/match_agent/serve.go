package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/talent-matcher/internal/cache"
	"github.com/jonathan/talent-matcher/internal/config"
	"github.com/jonathan/talent-matcher/internal/db"
	"github.com/jonathan/talent-matcher/internal/metrics"
	"github.com/jonathan/talent-matcher/internal/notify"
	"github.com/jonathan/talent-matcher/internal/server"
	"github.com/jonathan/talent-matcher/internal/server/ratelimit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for matching talent to projects.
PostgreSQL, Redis and NATS are used when database_url, redis.addr and nats.url are configured.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deps := server.Deps{
		Metrics: metrics.New(),
		Logger:  log,
		Limiter: ratelimit.NewLimiter(ratelimit.NewConfig(
			cfg.RateLimit.Enabled,
			cfg.RateLimit.RequestsPerSecond,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Whitelist,
			cfg.RateLimit.Blacklist,
		)),
	}

	if cfg.DatabaseURL != "" {
		database, err := connectDatabase(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return err
		}
		defer database.Close()
		deps.Store = database
	} else {
		log.Warn("database_url not set; stored-project endpoints are disabled")
	}

	if resultCache := connectCache(ctx, cfg, log); resultCache != nil {
		defer func() { _ = resultCache.Close() }()
		deps.Cache = resultCache
	}

	if cfg.NATS.URL != "" {
		publisher, err := notify.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, cfg.NATS.Threshold, log)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer publisher.Close()
		deps.Publisher = publisher
	}

	srv, err := server.New(server.Config{
		Port:           cfg.Server.Port,
		Weights:        cfg.Weights,
		Workers:        cfg.Workers,
		CacheTTL:       cfg.Redis.TTL,
		CandidateLimit: cfg.CandidateLimit,
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// connectDatabase opens the pool and applies pending migrations
func connectDatabase(ctx context.Context, databaseURL string, log *zap.Logger) (*db.DB, error) {
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	applied, err := database.Migrate(ctx)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if len(applied) > 0 {
		log.Info("applied migrations", zap.Ints("versions", applied))
	}
	return database, nil
}

// connectCache returns nil when Redis is not configured or unreachable; matching works uncached
func connectCache(ctx context.Context, cfg *config.Config, log *zap.Logger) *cache.Redis {
	if cfg.Redis.Addr == "" {
		return nil
	}
	redisCache := cache.NewRedis(cache.Options{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		DefaultTTL: cfg.Redis.TTL,
	})
	if err := redisCache.Ping(ctx); err != nil {
		log.Warn("redis unreachable; result caching disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = redisCache.Close()
		return nil
	}
	return redisCache
}
