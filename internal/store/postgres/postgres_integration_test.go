package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"medstore/backend/internal/domain"
	"medstore/backend/internal/store"
)

func TestSnapshotRoundTrip(t *testing.T) {
	databaseURL := os.Getenv("MEDSTORE_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set MEDSTORE_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM medstore_state`)
		_ = s.Close()
	})

	saved := store.Snapshot{
		Catalog: []domain.Medicine{{
			ID: "med-it-1", Name: "Cough Syrup", Category: "syrups",
			PriceCents: 800, Stock: 12,
			Expiry:    time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			DateAdded: time.Now().UTC().Truncate(time.Second),
		}},
		Sales: []domain.Sale{{
			ID:           "sale-it-1",
			Timestamp:    time.Now().UTC().Truncate(time.Second),
			CustomerName: "Walk-in Customer",
			Lines: []domain.BillLine{{
				MedicineID: "med-it-1", Name: "Cough Syrup",
				UnitPriceCents: 800, Quantity: 2, LineTotalCents: 1600,
			}},
			TotalCents: 1600,
		}},
	}
	if err := s.Save(ctx, saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Catalog) != 1 || loaded.Catalog[0].Name != "Cough Syrup" {
		t.Fatalf("catalog round trip wrong: %+v", loaded.Catalog)
	}
	if len(loaded.Sales) != 1 || loaded.Sales[0].TotalCents != 1600 {
		t.Fatalf("sales round trip wrong: %+v", loaded.Sales)
	}

	// A second save replaces rather than appends.
	if err := s.Save(ctx, store.Snapshot{}); err != nil {
		t.Fatalf("overwrite save: %v", err)
	}
	loaded, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("load after overwrite: %v", err)
	}
	if len(loaded.Catalog) != 0 || len(loaded.Sales) != 0 {
		t.Fatalf("overwrite must empty both buckets: %+v", loaded)
	}
}
