// Package main is the entrypoint for the chatlens API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/chatlens/chatlens/internal/cache"
	"github.com/chatlens/chatlens/internal/cleanup"
	"github.com/chatlens/chatlens/internal/config"
	"github.com/chatlens/chatlens/internal/handler"
	"github.com/chatlens/chatlens/internal/metrics"
	"github.com/chatlens/chatlens/internal/middleware"
	"github.com/chatlens/chatlens/internal/parser"
	"github.com/chatlens/chatlens/internal/repository"
	"github.com/chatlens/chatlens/internal/server"
	"github.com/chatlens/chatlens/internal/service"
	"github.com/chatlens/chatlens/internal/share"
	"github.com/chatlens/chatlens/internal/stats"
	"github.com/chatlens/chatlens/internal/vocab"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := initLogger(cfg)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	vocabulary := vocab.Default()
	if cfg.VocabularyFile != "" {
		vocabulary, err = vocab.Load(cfg.VocabularyFile)
		if err != nil {
			return err
		}
		logger.Info("loaded vocabulary", "path", cfg.VocabularyFile)
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnIdleTime: cfg.DBMaxConnIdle,
	})
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return errors.New("database unavailable")
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL, cache.PoolConfig{
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		return errors.New("redis unavailable")
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	var recorder metrics.Recorder = metrics.NewNoop()
	registry := prometheus.NewRegistry()
	if cfg.MetricsEnabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			metrics.NewPoolStatsCollector(repo.Pool()),
		)
		prom, err := metrics.NewPrometheus(registry)
		if err != nil {
			return err
		}
		recorder = prom
	}

	p, err := parser.New(parser.Config{
		Vocabulary: vocabulary,
		Location:   loc,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	engine, err := stats.NewEngine(stats.Config{Vocabulary: vocabulary, Logger: logger})
	if err != nil {
		return err
	}
	signer, err := share.NewSigner(cfg.ShareSecret, cfg.ShareTokenTTL, time.Now)
	if err != nil {
		return err
	}

	reportService, err := service.NewReportService(service.Config{
		Parser:          p,
		Engine:          engine,
		Store:           repo,
		Cache:           cacheClient,
		Signer:          signer,
		Recorder:        recorder,
		Logger:          logger,
		ReportTTL:       cfg.ReportTTL,
		AnalysisTimeout: cfg.AnalysisTimeout,
	})
	if err != nil {
		return err
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	routerCfg := server.RouterConfig{
		Logger:        logger,
		IsDevelopment: cfg.IsDevelopment(),
		Version:       version,
		Health:        handler.NewHealthHandler(repo, cacheClient, logger),
		Reports:       handler.NewReportHandler(reportService, logger),
		CORS:          corsCfg,
		MaxUploadSize: cfg.MaxUploadSize,
		RateLimit: middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: cacheClient,
			Enabled: cfg.RateLimitUploadEnabled,
			RPS:     cfg.RateLimitUploadRPS,
			Burst:   cfg.RateLimitUploadBurst,
		},
	}
	if cfg.MetricsEnabled {
		routerCfg.Metrics = handler.NewMetricsHandler(registry)
	}

	srv := server.New(server.NewRouter(routerCfg), server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Registered first so it stops last.
	worker := cleanup.NewWorker(repo, cfg.CleanupInterval, logger, recorder)
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("cleanup worker stopped", "error", err)
		}
	}()
	srv.OnShutdown("cleanup-worker", worker.Shutdown)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"version", version,
		"timezone", loc.String(),
		"metrics", cfg.MetricsEnabled,
	)

	return srv.Run(ctx)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "chatlens")
	slog.SetDefault(logger)

	return logger
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL drops the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError replaces any of secrets found in err's message with their
// redacted form.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
