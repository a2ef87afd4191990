// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/ManuGH/fivegms/internal/model"
)

const redisKeyPrefix = "fivegms:"

// RedisStore implements Store on redis. Each record lives under
// "fivegms:<kind>:<key>" and each kind keeps a key index set under
// "fivegms:index:<kind>".
type RedisStore struct {
	client redis.UniversalClient
}

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to redis and checks connectivity.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client}, nil
}

func redisRecordKey(kind model.Kind, key string) string {
	return redisKeyPrefix + string(kind) + ":" + key
}

func redisIndexKey(kind model.Kind) string {
	return redisKeyPrefix + "index:" + string(kind)
}

func (s *RedisStore) Put(ctx context.Context, kind model.Kind, key string, data []byte) error {
	if err := CheckKey(kind, key); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisRecordKey(kind, key), data, 0)
		pipe.SAdd(ctx, redisIndexKey(kind), key)
		return nil
	})
	return err
}

func (s *RedisStore) Get(ctx context.Context, kind model.Kind, key string) ([]byte, error) {
	if err := CheckKey(kind, key); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, redisRecordKey(kind, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *RedisStore) Delete(ctx context.Context, kind model.Kind, key string) error {
	if err := CheckKey(kind, key); err != nil {
		return err
	}
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, redisRecordKey(kind, key))
		pipe.SRem(ctx, redisIndexKey(kind), key)
		return nil
	})
	if err != nil {
		return err
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, kind model.Kind) ([]string, error) {
	keys, err := s.client.SMembers(ctx, redisIndexKey(kind)).Result()
	if err != nil {
		return nil, err
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
