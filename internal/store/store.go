// Package store defines the persistence adapter contract: whole-snapshot
// load and save of the catalog and the sales log. There is no delta
// persistence and no schema versioning; every save fully overwrites both
// collections, and both travel in one logical save.
package store

import (
	"context"

	"medstore/backend/internal/domain"
)

// Snapshot is the full persisted state.
type Snapshot struct {
	Catalog []domain.Medicine `json:"catalog"`
	Sales   []domain.Sale     `json:"sales"`
}

// SnapshotStore is the opaque key-value persistence collaborator. Load
// returns empty collections on first run; Save atomically replaces both.
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Close() error
}
