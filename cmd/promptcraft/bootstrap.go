// cmd/promptcraft/bootstrap.go
package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"promptcraft-studio/internal/common/cache"
	"promptcraft-studio/internal/common/config"
	"promptcraft-studio/internal/common/database"
	"promptcraft-studio/internal/common/llm"
	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/common/observability"
	"promptcraft-studio/internal/content"
	"promptcraft-studio/internal/flows"
	"promptcraft-studio/internal/library"
)

const (
	connectRetries    = 5
	connectRetryDelay = 2 * time.Second
)

// app holds everything a subcommand needs after startup.
type app struct {
	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
	obs    *observability.Observability
	conns  *database.Connections
	store  library.Store
	flows  flows.Set
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// bootstrap loads config, connects the enabled backends and builds the flows.
// logOutput overrides logging.output; the stdio MCP transport needs stderr.
func bootstrap(ctx context.Context, logOutput string) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	output := cfg.Logging.Output
	if logOutput != "" {
		output = logOutput
	}
	zapLog := logger.NewWithOptions(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  output,
		Service: cfg.App.Name,
	})
	log := logger.NewZapAdapter(zapLog)

	log.Info("Starting promptcraft", map[string]interface{}{
		"version":     rootCmd.Version,
		"environment": cfg.App.Environment,
		"aiProvider":  cfg.AI.Provider,
	})

	var conns *database.Connections
	err = retryWithBackoff(ctx, func() error {
		var err error
		conns, err = database.Open(ctx, cfg.Database, log)
		return err
	}, connectRetries, connectRetryDelay, log, "Backend connection")
	if err != nil {
		return nil, err
	}

	client, err := llm.NewFromConfig(ctx, cfg.AI)
	if err != nil {
		conns.Close()
		return nil, fmt.Errorf("ai client init failed: %w", err)
	}

	var flowCache cache.Cache = cache.Noop{}
	if conns.Redis != nil {
		flowCache = cache.NewRedisCache(conns.Redis, config.GetDuration(cfg.Database.Redis.TTL))
	}

	var store library.Store = library.NewMemoryStore(content.LibrarySeed())
	if conns.Postgres != nil {
		store = library.NewPostgresStore(conns.Postgres)
	}

	obs := observability.Default(cfg.App.Name, log)

	return &app{
		cfg:    cfg,
		zapLog: zapLog,
		log:    log,
		obs:    obs,
		conns:  conns,
		store:  store,
		flows: flows.New(cfg, flows.Deps{
			Client: client,
			Cache:  flowCache,
			Obs:    obs,
			Search: conns.Elasticsearch,
			Store:  store,
			Logger: log,
		}),
	}, nil
}

func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.obs.Shutdown(ctx); err != nil {
		a.log.Warn("Error shutting down meter provider", map[string]interface{}{"error": err.Error()})
	}
	if err := a.conns.Close(); err != nil {
		a.log.Warn("Error closing backend connections", map[string]interface{}{"error": err.Error()})
	}
	_ = a.zapLog.Sync()
}

// retryWithBackoff runs operation until it succeeds, doubling the delay after
// each failure.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
