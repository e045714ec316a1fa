package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"medstore/backend/internal/domain"
	"medstore/backend/internal/store"
)

func testSnapshot() store.Snapshot {
	return store.Snapshot{
		Catalog: []domain.Medicine{{
			ID: "med-1", Name: "Amoxicillin 250mg", Category: "capsules",
			PriceCents: 1200, Stock: 40,
			Expiry:    time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC),
			DateAdded: time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC),
		}},
		Sales: []domain.Sale{{
			ID:           "sale-1",
			Timestamp:    time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
			CustomerName: "Walk-in Customer",
			Lines: []domain.BillLine{{
				MedicineID: "med-1", Name: "Amoxicillin 250mg",
				UnitPriceCents: 1200, Quantity: 3, LineTotalCents: 3600,
			}},
			TotalCents: 3600,
		}},
	}
}

func TestFreshDatabaseLoadsEmpty(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "medstore.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(snap.Catalog) != 0 || len(snap.Sales) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medstore.db")
	ctx := context.Background()

	s, err := New(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	saved := testSnapshot()
	if err := s.Save(ctx, saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load after reopen failed: %v", err)
	}
	if len(loaded.Catalog) != 1 || len(loaded.Sales) != 1 {
		t.Fatalf("snapshot shape wrong after reopen: %+v", loaded)
	}
	med := loaded.Catalog[0]
	if med.Name != "Amoxicillin 250mg" || med.Stock != 40 || !med.Expiry.Equal(saved.Catalog[0].Expiry) {
		t.Fatalf("catalog entry corrupted: %+v", med)
	}
	sale := loaded.Sales[0]
	if sale.TotalCents != 3600 || sale.Lines[0].Quantity != 3 {
		t.Fatalf("sale corrupted: %+v", sale)
	}
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "medstore.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.Save(ctx, testSnapshot()); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := s.Save(ctx, store.Snapshot{}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Catalog) != 0 || len(loaded.Sales) != 0 {
		t.Fatalf("save must overwrite both buckets: %+v", loaded)
	}
}
