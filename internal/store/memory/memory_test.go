package memory

import (
	"context"
	"testing"
	"time"

	"medstore/backend/internal/domain"
	"medstore/backend/internal/store"
)

func TestLoadEmptyOnFirstRun(t *testing.T) {
	s := New()
	defer s.Close()

	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(snap.Catalog) != 0 || len(snap.Sales) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	saved := store.Snapshot{
		Catalog: []domain.Medicine{{
			ID: "med-1", Name: "Paracetamol", Category: "tablets",
			PriceCents: 2550, Stock: 150,
			Expiry:    time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC),
			DateAdded: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
		}},
		Sales: []domain.Sale{{
			ID:           "sale-1",
			Timestamp:    time.Date(2026, 8, 31, 11, 0, 0, 0, time.UTC),
			CustomerName: "Asha",
			Lines: []domain.BillLine{{
				MedicineID: "med-1", Name: "Paracetamol",
				UnitPriceCents: 2550, Quantity: 2, LineTotalCents: 5100,
			}},
			TotalCents: 5100,
		}},
	}
	if err := s.Save(ctx, saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Catalog) != 1 || len(loaded.Sales) != 1 {
		t.Fatalf("snapshot shape wrong: %+v", loaded)
	}
	med := loaded.Catalog[0]
	if med.ID != "med-1" || med.PriceCents != 2550 || !med.Expiry.Equal(saved.Catalog[0].Expiry) {
		t.Fatalf("catalog entry did not survive: %+v", med)
	}
	sale := loaded.Sales[0]
	if sale.CustomerName != "Asha" || sale.TotalCents != 5100 || len(sale.Lines) != 1 {
		t.Fatalf("sale did not survive: %+v", sale)
	}
}

func TestSaveOverwritesWhole(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	first := store.Snapshot{Catalog: []domain.Medicine{{ID: "med-1"}, {ID: "med-2"}}}
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second := store.Snapshot{Catalog: []domain.Medicine{{ID: "med-3"}}}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Catalog) != 1 || loaded.Catalog[0].ID != "med-3" {
		t.Fatalf("save must replace, not merge: %+v", loaded.Catalog)
	}
}

func TestLoadedSnapshotIsDetached(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	if err := s.Save(ctx, store.Snapshot{Catalog: []domain.Medicine{{ID: "med-1", Stock: 5}}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	first, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	first.Catalog[0].Stock = 99

	second, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if second.Catalog[0].Stock != 5 {
		t.Fatalf("mutating a loaded snapshot must not leak into the store")
	}
}
