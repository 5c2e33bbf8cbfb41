package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisStore keeps each book, compressed like a book file, under prefix+key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}

	log.Info().Msgf("Book store connected to redis at %s", addr)
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, b *Book) error {
	data, err := pack(b)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("saving book %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, key string) (*Book, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("loading book %q: %w", key, err)
	}
	return unpack(data)
}

func (s *RedisStore) Close(ctx context.Context) error {
	return s.client.Close()
}
