// Package catalog owns the ordered in-memory collection of medicine
// records. It is the only writer of medicine fields, except for stock
// decrements applied by checkout through AdjustStock.
package catalog

import (
	"strings"
	"time"

	"medstore/backend/internal/domain"
	"medstore/backend/internal/xid"
)

// Store keeps medicines in insertion order. It is not safe for concurrent
// use; the owning application context serializes access.
type Store struct {
	list []domain.Medicine
	byID map[string]int
}

func New() *Store {
	return &Store{byID: make(map[string]int)}
}

// Replace swaps in a previously persisted catalog, preserving its order.
func (s *Store) Replace(medicines []domain.Medicine) {
	s.list = make([]domain.Medicine, len(medicines))
	copy(s.list, medicines)
	s.byID = make(map[string]int, len(medicines))
	for i, med := range s.list {
		s.byID[med.ID] = i
	}
}

// Add validates the input, assigns a fresh id and creation timestamp and
// appends the record. The returned medicine is the stored value.
func (s *Store) Add(input domain.MedicineInput, now time.Time) (domain.Medicine, error) {
	med, err := buildMedicine(input, now)
	if err != nil {
		return domain.Medicine{}, err
	}

	med.ID = xid.New("med")
	med.DateAdded = now.UTC()
	s.byID[med.ID] = len(s.list)
	s.list = append(s.list, med)
	return med, nil
}

// Update replaces every field except id and dateAdded, applying the same
// validation as Add. The record keeps its position in the catalog.
func (s *Store) Update(id string, input domain.MedicineInput, now time.Time) (domain.Medicine, error) {
	idx, ok := s.byID[id]
	if !ok {
		return domain.Medicine{}, domain.ErrNotFound
	}

	med, err := buildMedicine(input, now)
	if err != nil {
		return domain.Medicine{}, err
	}

	med.ID = id
	med.DateAdded = s.list[idx].DateAdded
	s.list[idx] = med
	return med, nil
}

// Remove deletes the record. Removing an absent id is an error, not a
// no-op.
func (s *Store) Remove(id string) error {
	idx, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}

	s.list = append(s.list[:idx], s.list[idx+1:]...)
	delete(s.byID, id)
	for i := idx; i < len(s.list); i++ {
		s.byID[s.list[i].ID] = i
	}
	return nil
}

// Get resolves a weak reference by id.
func (s *Store) Get(id string) (domain.Medicine, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return domain.Medicine{}, false
	}
	return s.list[idx], true
}

// AdjustStock applies a stock delta. The caller is responsible for
// bounding the delta; stock never goes negative.
func (s *Store) AdjustStock(id string, delta int) error {
	idx, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	next := s.list[idx].Stock + delta
	if next < 0 {
		next = 0
	}
	s.list[idx].Stock = next
	return nil
}

// All returns a copy of the catalog in insertion order.
func (s *Store) All() []domain.Medicine {
	out := make([]domain.Medicine, len(s.list))
	copy(out, s.list)
	return out
}

// Find returns the medicines matching pred, preserving catalog order.
func (s *Store) Find(pred func(domain.Medicine) bool) []domain.Medicine {
	out := make([]domain.Medicine, 0, len(s.list))
	for _, med := range s.list {
		if pred(med) {
			out = append(out, med)
		}
	}
	return out
}

func (s *Store) Len() int {
	return len(s.list)
}

// ListQuery composes the inventory table filters. Empty fields match
// everything; filtering never reorders.
type ListQuery struct {
	Search   string
	Category string
	Status   domain.Status
}

// Filter applies a ListQuery against the catalog at the given date.
func (s *Store) Filter(q ListQuery, today time.Time) []domain.Medicine {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	return s.Find(func(med domain.Medicine) bool {
		if search != "" && !strings.Contains(strings.ToLower(med.Name), search) {
			return false
		}
		if q.Category != "" && med.Category != q.Category {
			return false
		}
		if q.Status != "" && StatusOf(med, today) != q.Status {
			return false
		}
		return true
	})
}

// AvailableForBilling lists medicines that can be added to a bill: not
// expired, stock above zero, optionally filtered by name.
func (s *Store) AvailableForBilling(search string, today time.Time) []domain.Medicine {
	search = strings.ToLower(strings.TrimSpace(search))
	return s.Find(func(med domain.Medicine) bool {
		if StatusOf(med, today) == domain.StatusExpired || med.Stock <= 0 {
			return false
		}
		return search == "" || strings.Contains(strings.ToLower(med.Name), search)
	})
}

// StatusOf derives the status of a medicine for the given date. Expiry
// wins over stock: an expired medicine is expired whatever its stock.
// Dates are compared at day granularity in UTC.
func StatusOf(med domain.Medicine, today time.Time) domain.Status {
	if DateOf(med.Expiry).Before(DateOf(today)) {
		return domain.StatusExpired
	}
	if med.Stock < domain.LowStockThreshold {
		return domain.StatusLowStock
	}
	return domain.StatusInStock
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseExpiry parses a 2006-01-02 calendar date.
func ParseExpiry(value string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(value))
}

func buildMedicine(input domain.MedicineInput, now time.Time) (domain.Medicine, error) {
	var violated []string

	name := strings.TrimSpace(input.Name)
	if name == "" {
		violated = append(violated, "name")
	}
	category := strings.TrimSpace(input.Category)
	if !domain.ValidCategory(category) {
		violated = append(violated, "category")
	}
	if input.PriceCents < 1 {
		violated = append(violated, "price_cents")
	}
	if input.Stock < 0 {
		violated = append(violated, "stock")
	}

	expiry, err := ParseExpiry(input.Expiry)
	if err != nil || expiry.Before(DateOf(now)) {
		violated = append(violated, "expiry")
	}

	if len(violated) > 0 {
		return domain.Medicine{}, &domain.ValidationError{Fields: violated}
	}

	return domain.Medicine{
		Name:       name,
		Category:   category,
		PriceCents: input.PriceCents,
		Stock:      input.Stock,
		Expiry:     expiry,
	}, nil
}
