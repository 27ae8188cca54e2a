package store

import (
	"context"
	"fmt"
)

// Config selects and configures a backend.
type Config struct {
	// Backend is one of memory, file, redis or mongo. Empty means file.
	Backend string
	// Dir is the file backend directory.
	Dir   string
	Redis RedisConfig
	Mongo MongoConfig
}

// Open creates the configured backend and wraps it in a Store.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.Backend {
	case "memory":
		b = NewMemoryBackend()
	case "", "file":
		b, err = NewFileBackend(cfg.Dir)
	case "redis":
		b, err = NewRedisBackend(ctx, cfg.Redis)
	case "mongo":
		b, err = NewMongoBackend(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return New(b), nil
}
