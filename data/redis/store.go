package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ncobase/searchsync/data/store"
	"github.com/redis/go-redis/v9"
)

// Store implements store.Store on a Redis client.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// New creates a store using client. Keys are namespaced by prefix.
func New(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Name() string { return "redis" }

// Key returns the key holding an entity.
func (s *Store) Key(base, name, id string) string {
	key := store.Canon(base, name) + ":" + id
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *Store) Save(ctx context.Context, e *store.Entity) (*store.Entity, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	stored := e.Clone()
	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("redis: encode %s %s: %w", stored.Canon(), stored.ID, err)
	}
	if err := s.client.Set(ctx, s.Key(stored.Base, stored.Name, stored.ID), raw, 0).Err(); err != nil {
		return nil, fmt.Errorf("redis: save %s %s: %w", stored.Canon(), stored.ID, err)
	}
	return stored, nil
}

func (s *Store) Load(ctx context.Context, base, name, id string) (*store.Entity, error) {
	raw, err := s.client.Get(ctx, s.Key(base, name, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.NotFoundError(base, name, id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis: load %s %s: %w", store.Canon(base, name), id, err)
	}
	return decode(raw)
}

func (s *Store) Remove(ctx context.Context, base, name, id string) error {
	n, err := s.client.Del(ctx, s.Key(base, name, id)).Result()
	if err != nil {
		return fmt.Errorf("redis: remove %s %s: %w", store.Canon(base, name), id, err)
	}
	if n == 0 {
		return store.NotFoundError(base, name, id)
	}
	return nil
}

func (s *Store) List(ctx context.Context, base, name string, ids []string) ([]*store.Entity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.Key(base, name, id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list %s: %w", store.Canon(base, name), err)
	}
	return decodeValues(values)
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// decodeValues decodes an MGET reply, skipping missing keys.
func decodeValues(values []any) ([]*store.Entity, error) {
	out := make([]*store.Entity, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		e, err := decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decode(raw []byte) (*store.Entity, error) {
	var e store.Entity
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("redis: corrupt entity: %w", err)
	}
	return &e, nil
}
