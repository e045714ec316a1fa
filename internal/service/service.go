// Package service is the application context: it owns the catalog, the
// billing session and the append-only sales log behind a single lock,
// and is the only component that talks to the snapshot store. Operations
// either complete fully or leave no trace: validation happens before
// any mutation, and a failed save restores the pre-mutation state before
// the error is returned.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"medstore/backend/internal/billing"
	"medstore/backend/internal/catalog"
	"medstore/backend/internal/domain"
	"medstore/backend/internal/metrics"
	"medstore/backend/internal/report"
	"medstore/backend/internal/store"
	"medstore/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// StoreInfo is the header printed on receipts.
type StoreInfo struct {
	Name    string
	Address string
	Phone   string
}

type Service struct {
	mu       sync.Mutex
	catalog  *catalog.Store
	session  *billing.Session
	sales    []domain.Sale
	snapshot store.SnapshotStore
	info     StoreInfo
	log      *zap.Logger
	now      func() time.Time

	subMu  sync.Mutex
	subs   map[int]chan domain.Event
	nextID int
}

// New loads the persisted snapshot and builds a ready application
// context. A first run (no persisted data) starts with empty
// collections.
func New(ctx context.Context, snapshot store.SnapshotStore, info StoreInfo, log *zap.Logger) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if info.Name == "" {
		info.Name = "Pioneer Medical Store"
	}

	snap, err := snapshot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	s := &Service{
		catalog:  catalog.New(),
		session:  billing.NewSession(),
		sales:    snap.Sales,
		snapshot: snapshot,
		info:     info,
		log:      log,
		now:      time.Now,
		subs:     make(map[int]chan domain.Event),
	}
	s.catalog.Replace(snap.Catalog)
	metrics.CatalogSize.Set(float64(s.catalog.Len()))

	log.Info("state loaded",
		zap.Int("medicines", s.catalog.Len()),
		zap.Int("sales", len(s.sales)))

	return s, nil
}

// ListMedicines returns the catalog filtered by the query, with derived
// statuses, in insertion order.
func (s *Service) ListMedicines(_ context.Context, q catalog.ListQuery) []domain.MedicineView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withStatus(s.catalog.Filter(q, s.now()))
}

// Summary computes the header statistics.
func (s *Service) Summary(_ context.Context) domain.InventorySummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now()
	summary := domain.InventorySummary{TotalMedicines: s.catalog.Len()}
	for _, med := range s.catalog.All() {
		switch catalog.StatusOf(med, today) {
		case domain.StatusLowStock:
			summary.LowStockCount++
		case domain.StatusExpired:
			summary.ExpiredCount++
		}
	}
	return summary
}

func (s *Service) CreateMedicine(ctx context.Context, input domain.MedicineInput) (domain.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.catalog.All()
	med, err := s.catalog.Add(input, s.now())
	if err != nil {
		return domain.Medicine{}, err
	}
	if err := s.persist(ctx); err != nil {
		s.catalog.Replace(prev)
		return domain.Medicine{}, err
	}

	metrics.CatalogSize.Set(float64(s.catalog.Len()))
	s.publish(domain.Event{Kind: domain.EventCatalogChanged, At: s.now().UTC()})
	s.log.Info("medicine added", zap.String("id", med.ID), zap.String("name", med.Name))
	return med, nil
}

func (s *Service) UpdateMedicine(ctx context.Context, id string, input domain.MedicineInput) (domain.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.catalog.All()
	med, err := s.catalog.Update(id, input, s.now())
	if err != nil {
		return domain.Medicine{}, err
	}
	if err := s.persist(ctx); err != nil {
		s.catalog.Replace(prev)
		return domain.Medicine{}, err
	}

	s.publish(domain.Event{Kind: domain.EventCatalogChanged, At: s.now().UTC()})
	s.log.Info("medicine updated", zap.String("id", med.ID))
	return med, nil
}

// DeleteMedicine removes a catalog entry. Bill lines referencing it are
// left in place and become dangling: any further quantity change or
// checkout against them fails with not-found.
func (s *Service) DeleteMedicine(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.catalog.All()
	if err := s.catalog.Remove(id); err != nil {
		return err
	}
	if err := s.persist(ctx); err != nil {
		s.catalog.Replace(prev)
		return err
	}

	metrics.CatalogSize.Set(float64(s.catalog.Len()))
	s.publish(domain.Event{Kind: domain.EventCatalogChanged, At: s.now().UTC()})
	s.log.Info("medicine deleted", zap.String("id", id))
	return nil
}

// AvailableForBilling lists medicines that can go on a bill right now.
func (s *Service) AvailableForBilling(_ context.Context, search string) []domain.MedicineView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withStatus(s.catalog.AvailableForBilling(search, s.now()))
}

func (s *Service) AddToBill(_ context.Context, medicineID string) (domain.BillView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.session.AddItem(s.catalog, medicineID); err != nil {
		return domain.BillView{}, err
	}
	s.publish(domain.Event{Kind: domain.EventSessionChanged, At: s.now().UTC()})
	return s.billViewLocked(), nil
}

func (s *Service) SetBillQuantity(_ context.Context, medicineID string, quantity int) (domain.BillView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.SetQuantity(s.catalog, medicineID, quantity); err != nil {
		return domain.BillView{}, err
	}
	s.publish(domain.Event{Kind: domain.EventSessionChanged, At: s.now().UTC()})
	return s.billViewLocked(), nil
}

func (s *Service) RemoveFromBill(_ context.Context, medicineID string) domain.BillView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.RemoveItem(medicineID)
	s.publish(domain.Event{Kind: domain.EventSessionChanged, At: s.now().UTC()})
	return s.billViewLocked()
}

// ClearBill resets the session without selling anything.
func (s *Service) ClearBill(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Clear()
	s.publish(domain.Event{Kind: domain.EventSessionChanged, At: s.now().UTC()})
}

func (s *Service) Bill(_ context.Context) domain.BillView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.billViewLocked()
}

// Checkout finalizes the billing session: it snapshots the lines into an
// immutable sale, decrements stock for every line, appends the sale to
// the log and saves catalog and log together. Stock deltas are applied
// only after every referenced medicine has been confirmed to still
// exist, so a vanished medicine aborts the whole checkout untouched.
func (s *Service) Checkout(ctx context.Context, customerName string) (domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Empty() {
		return domain.Sale{}, domain.ErrEmptySession
	}

	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		customerName = domain.WalkInCustomer
	}

	lines := s.session.Lines()
	for _, line := range lines {
		if _, ok := s.catalog.Get(line.MedicineID); !ok {
			return domain.Sale{}, fmt.Errorf("bill line %q: %w", line.Name, domain.ErrNotFound)
		}
	}

	sale := domain.Sale{
		ID:           xid.New("sale"),
		Timestamp:    s.now().UTC(),
		CustomerName: customerName,
		Lines:        lines,
		TotalCents:   s.session.TotalCents(),
	}

	prevCatalog := s.catalog.All()
	prevSales := s.sales
	for _, line := range lines {
		// Existence was just verified under the same lock; AdjustStock
		// cannot fail here.
		_ = s.catalog.AdjustStock(line.MedicineID, -line.Quantity)
	}
	s.sales = append(s.sales, sale)

	if err := s.persist(ctx); err != nil {
		s.catalog.Replace(prevCatalog)
		s.sales = prevSales
		return domain.Sale{}, err
	}

	s.session.Clear()

	metrics.CheckoutsTotal.Inc()
	metrics.SaleAmountCents.Observe(float64(sale.TotalCents))
	now := s.now().UTC()
	s.publish(domain.Event{Kind: domain.EventSaleFinalized, At: now, SaleID: sale.ID})
	s.publish(domain.Event{Kind: domain.EventCatalogChanged, At: now})
	s.publish(domain.Event{Kind: domain.EventSessionChanged, At: now})
	s.log.Info("sale finalized",
		zap.String("sale_id", sale.ID),
		zap.String("customer", sale.CustomerName),
		zap.Int64("total_cents", sale.TotalCents),
		zap.Int("lines", len(sale.Lines)))

	return sale, nil
}

// RecentSales returns the last n sales, most recent first.
func (s *Service) RecentSales(_ context.Context, n int) []domain.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()

	return report.RecentSales(s.sales, n)
}

func (s *Service) GetSale(_ context.Context, id string) (domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sale := range s.sales {
		if sale.ID == id {
			return sale, nil
		}
	}
	return domain.Sale{}, domain.ErrNotFound
}

func (s *Service) Valuation(_ context.Context) domain.StockValuation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return report.Valuation(s.catalog.All())
}

func (s *Service) ExpiryAlerts(_ context.Context) domain.ExpiryReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	return report.ExpiryAlerts(s.catalog.All(), s.now())
}

// Subscribe registers a presentation-layer listener for change events.
// The returned cancel func must be called to release the channel. Slow
// listeners miss events rather than blocking operations.
func (s *Service) Subscribe() (<-chan domain.Event, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan domain.Event, 16)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *Service) publish(ev domain.Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) billViewLocked() domain.BillView {
	return domain.BillView{
		Lines:      s.session.Lines(),
		TotalCents: s.session.TotalCents(),
	}
}

func (s *Service) withStatus(medicines []domain.Medicine) []domain.MedicineView {
	today := s.now()
	views := make([]domain.MedicineView, 0, len(medicines))
	for _, med := range medicines {
		views = append(views, domain.MedicineView{
			Medicine: med,
			Status:   catalog.StatusOf(med, today),
		})
	}
	return views
}

// persist saves catalog and sales log as one logical snapshot. Callers
// restore their pre-mutation state when it fails.
func (s *Service) persist(ctx context.Context) error {
	sales := make([]domain.Sale, len(s.sales))
	copy(sales, s.sales)

	err := s.snapshot.Save(ctx, store.Snapshot{
		Catalog: s.catalog.All(),
		Sales:   sales,
	})
	if err != nil {
		s.log.Warn("snapshot save failed", zap.Error(err))
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
