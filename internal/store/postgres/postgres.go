// Package postgres persists snapshots to PostgreSQL. Layout matches the
// sqlite backend: one state table keyed by bucket, whole JSON blobs,
// both buckets replaced in a single transaction per save.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"medstore/backend/internal/store"
)

const (
	bucketCatalog = "catalog"
	bucketSales   = "sales"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS medstore_state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM medstore_state`)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("select state: %w", err)
	}
	defer rows.Close()

	var snap store.Snapshot
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return store.Snapshot{}, fmt.Errorf("scan state: %w", err)
		}
		switch bucket {
		case bucketCatalog:
			if err := json.Unmarshal(payload, &snap.Catalog); err != nil {
				return store.Snapshot{}, fmt.Errorf("decode catalog: %w", err)
			}
		case bucketSales:
			if err := json.Unmarshal(payload, &snap.Sales); err != nil {
				return store.Snapshot{}, fmt.Errorf("decode sales: %w", err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return store.Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) Save(ctx context.Context, snap store.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for bucket, value := range map[string]any{
		bucketCatalog: snap.Catalog,
		bucketSales:   snap.Sales,
	} {
		payload, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", bucket, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO medstore_state (bucket, payload, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (bucket) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
		`, bucket, payload); err != nil {
			return fmt.Errorf("write %s: %w", bucket, err)
		}
	}

	return tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}
