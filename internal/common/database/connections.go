package database

import (
	"context"
	"fmt"
	"time"

	"rewards-workers/internal/common/config"
)

// Connections holds the stores shared by all personalization workers.
// Elasticsearch is nil unless the catalog is served from a search index.
type Connections struct {
	Postgres      *PostgresClient
	Redis         *RedisClient
	Elasticsearch *ElasticsearchClient
}

// Open connects and pings every configured store. Stores opened before a
// failure are closed again.
func Open(ctx context.Context, cfg *config.Config) (*Connections, error) {
	conns := &Connections{}

	pg, err := NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	conns.Postgres = pg

	conns.Redis = NewRedis(cfg.Database.Redis)

	if cfg.Catalog.Source == config.CatalogSourceElasticsearch {
		es, err := NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Elasticsearch = es
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conns.Ping(pingCtx); err != nil {
		conns.Close()
		return nil, err
	}
	return conns, nil
}

// stores lists the open backends in dependency order.
func (c *Connections) stores() []store {
	var out []store
	if c.Postgres != nil {
		out = append(out, c.Postgres)
	}
	if c.Redis != nil {
		out = append(out, c.Redis)
	}
	if c.Elasticsearch != nil {
		out = append(out, c.Elasticsearch)
	}
	return out
}

// Ping checks every open store and reports the first failure.
func (c *Connections) Ping(ctx context.Context) error {
	for _, s := range c.stores() {
		if err := s.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases all open stores and returns the first error.
func (c *Connections) Close() error {
	var firstErr error
	for _, s := range c.stores() {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close store: %w", err)
		}
	}
	return firstErr
}
