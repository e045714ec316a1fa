// Package sqlite persists snapshots to a single local SQLite file: one
// table of JSON blobs, one bucket per collection, fully rewritten on
// every save. This is the default backend when nothing else is
// configured.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"medstore/backend/internal/store"
)

const (
	bucketCatalog = "catalog"
	bucketSales   = "sales"
)

type Store struct {
	db   *sql.DB
	path string
}

func New(path string) (*Store, error) {
	if path == "" {
		path = "medstore.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The snapshot store is serialized by the service; a single
	// connection avoids SQLITE_BUSY on concurrent writes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

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
			INSERT INTO state (bucket, payload) VALUES (?, ?)
			ON CONFLICT (bucket) DO UPDATE SET payload = excluded.payload
		`, bucket, payload); err != nil {
			return fmt.Errorf("write %s: %w", bucket, err)
		}
	}

	return tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}
