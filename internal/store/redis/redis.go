// Package redis persists snapshots to a Redis instance: one JSON value
// per collection under a fixed key prefix, both written through a single
// MULTI pipeline so a save is all-or-nothing.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"medstore/backend/internal/store"
)

const (
	keyCatalog = "medstore:catalog"
	keySales   = "medstore:sales"
)

type Store struct {
	client *redis.Client
}

func New(addr string, password string, db int) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &Store{client: client}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	var snap store.Snapshot

	if err := s.loadKey(ctx, keyCatalog, &snap.Catalog); err != nil {
		return store.Snapshot{}, err
	}
	if err := s.loadKey(ctx, keySales, &snap.Sales); err != nil {
		return store.Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) loadKey(ctx context.Context, key string, dest any) error {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, snap store.Snapshot) error {
	catalogBlob, err := json.Marshal(snap.Catalog)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	salesBlob, err := json.Marshal(snap.Sales)
	if err != nil {
		return fmt.Errorf("encode sales: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, keyCatalog, catalogBlob, 0)
	pipe.Set(ctx, keySales, salesBlob, 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) Close() error {
	return s.client.Close()
}
