package book

import (
	"context"
	"fmt"
)

type Store interface {
	Save(ctx context.Context, key string, b *Book) error
	// Load returns ErrNotFound when nothing is stored under key
	Load(ctx context.Context, key string) (*Book, error)
	Close(ctx context.Context) error
}

type Config struct {
	Backend string `mapstructure:"backend"`
	Key     string `mapstructure:"key"`
	Dir     string `mapstructure:"dir"`
	Redis   struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		Prefix   string `mapstructure:"prefix"`
	} `mapstructure:"redis"`
	Mongo struct {
		URI      string `mapstructure:"uri"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mongo"`
}

// Open connects the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "file", "":
		return NewFileStore(cfg.Dir)
	case "redis":
		return NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
	case "mongo":
		return NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
