package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"

	"promptcraft-studio/internal/common/config"
	"promptcraft-studio/internal/common/logger"
)

// Pinger is one backend the readiness probe checks.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// Connections holds the optional backends. A nil field means the backend is
// disabled in config.
type Connections struct {
	Postgres      *sql.DB
	Redis         *redis.Client
	Elasticsearch *elasticsearch.Client
}

// Open connects every enabled backend and pings it once.
func Open(ctx context.Context, cfg config.DatabaseConfig, log logger.Logger) (*Connections, error) {
	conns := &Connections{}

	if cfg.Postgres.Enabled {
		db, err := OpenPostgres(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		conns.Postgres = db
		if err := (sqlPinger{db}).Ping(ctx); err != nil {
			conns.Close()
			return nil, err
		}
		log.Info("Connected to postgres", map[string]interface{}{"host": cfg.Postgres.Host, "database": cfg.Postgres.Database})
	}

	if cfg.Redis.Enabled {
		conns.Redis = OpenRedis(cfg.Redis)
		if err := (redisPinger{conns.Redis}).Ping(ctx); err != nil {
			conns.Close()
			return nil, err
		}
		log.Info("Connected to redis", map[string]interface{}{"address": cfg.Redis.Address})
	}

	if cfg.Elasticsearch.Enabled {
		es, err := OpenElasticsearch(cfg.Elasticsearch)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Elasticsearch = es
		if err := (esPinger{es}).Ping(ctx); err != nil {
			// Search degrades to the in-memory library, so this is not fatal.
			log.Warn("Elasticsearch unreachable at startup", map[string]interface{}{"error": err.Error()})
		} else {
			log.Info("Connected to elasticsearch", map[string]interface{}{"url": cfg.Elasticsearch.GetURL()})
		}
	}

	return conns, nil
}

// Pingers lists the enabled backends for readiness checks.
func (c *Connections) Pingers() []Pinger {
	var out []Pinger
	if c == nil {
		return out
	}
	if c.Postgres != nil {
		out = append(out, sqlPinger{c.Postgres})
	}
	if c.Redis != nil {
		out = append(out, redisPinger{c.Redis})
	}
	if c.Elasticsearch != nil {
		out = append(out, esPinger{c.Elasticsearch})
	}
	return out
}

// PingAll returns the joined errors of every failing backend.
func (c *Connections) PingAll(ctx context.Context) error {
	var errs []error
	for _, p := range c.Pingers() {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (c *Connections) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Postgres != nil {
		errs = append(errs, c.Postgres.Close())
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	return errors.Join(errs...)
}
