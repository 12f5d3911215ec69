// Package redis provides a Redis entity store. Entities are kept as JSON
// strings under "prefix:base/name:id".
package redis

import (
	"context"
	"fmt"

	"github.com/ncobase/searchsync/config"
	"github.com/ncobase/searchsync/data"
	"github.com/redis/go-redis/v9"
)

type driver struct{}

func (d *driver) Name() string {
	return config.StoreRedis
}

func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	sc, ok := cfg.(*config.Store)
	if !ok || sc == nil || sc.Redis == nil {
		return nil, fmt.Errorf("redis: invalid configuration type, expected *config.Store")
	}
	redisCfg := sc.Redis
	if redisCfg.Addr == "" {
		return nil, fmt.Errorf("redis: address is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         redisCfg.Addr,
		Username:     redisCfg.Username,
		Password:     redisCfg.Password,
		DB:           redisCfg.DB,
		ReadTimeout:  redisCfg.ReadTimeout,
		WriteTimeout: redisCfg.WriteTimeout,
		DialTimeout:  redisCfg.DialTimeout,
	})

	return New(client, redisCfg.Prefix), nil
}

func (d *driver) Close(conn any) error {
	s, ok := conn.(*Store)
	if !ok {
		return fmt.Errorf("redis: invalid connection type, expected *redis.Store")
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("redis: failed to close connection: %w", err)
	}
	return nil
}

func (d *driver) Ping(ctx context.Context, conn any) error {
	s, ok := conn.(*Store)
	if !ok {
		return fmt.Errorf("redis: invalid connection type, expected *redis.Store")
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}

func init() {
	data.RegisterStoreDriver(&driver{})
}
