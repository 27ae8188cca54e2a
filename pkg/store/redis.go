package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a RedisBackend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces all keys, e.g. "canvaskit:".
	Prefix string
}

// RedisBackend stores each document as a string key <prefix>canvas:<id>
// and tracks ids in the set <prefix>canvases.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend connects to Redis and verifies the connection.
func NewRedisBackend(ctx context.Context, cfg RedisConfig) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return NewRedisBackendFromClient(client, cfg.Prefix), nil
}

// NewRedisBackendFromClient wraps an existing client.
func NewRedisBackendFromClient(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

func (r *RedisBackend) Name() string { return "redis" }

func (r *RedisBackend) key(id string) string { return r.prefix + "canvas:" + id }
func (r *RedisBackend) indexKey() string     { return r.prefix + "canvases" }

func (r *RedisBackend) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, redisErr("load", err)
	}
	return data, nil
}

func (r *RedisBackend) Save(ctx context.Context, id string, data []byte) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.key(id), data, 0)
		p.SAdd(ctx, r.indexKey(), id)
		return nil
	})
	return redisErr("save", err)
}

func (r *RedisBackend) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, r.key(id))
		p.SRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return redisErr("delete", err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisBackend) List(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, redisErr("list", err)
	}
	return ids, nil
}

func (r *RedisBackend) Close() error { return r.client.Close() }

// redisErr marks connection-level failures as retryable.
func redisErr(op string, err error) error {
	if err == nil {
		return nil
	}
	err = fmt.Errorf("redis %s: %w", op, err)
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, redis.ErrClosed) {
		return Retryable(err)
	}
	return err
}

var _ Backend = (*RedisBackend)(nil)
