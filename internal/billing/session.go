// Package billing holds the transient cart for one checkout interaction.
// Lines reference medicines weakly by id and are resolved against the
// live catalog on every mutation, so a deleted medicine surfaces as
// not-found instead of a stale pointer.
package billing

import (
	"medstore/backend/internal/domain"
)

// CatalogReader is the lookup the session uses to resolve weak medicine
// references; *catalog.Store satisfies it.
type CatalogReader interface {
	Get(id string) (domain.Medicine, bool)
}

// Session is one in-progress bill. One line per distinct medicine id,
// in first-added order. Not safe for concurrent use.
type Session struct {
	lines []domain.BillLine
}

func NewSession() *Session {
	return &Session{}
}

// AddItem puts one unit of the medicine on the bill: a new line at
// quantity 1, or an existing line incremented by 1. The unit price is
// re-read from the catalog on every successful add, so a price edit is
// picked up the next time the line is touched here.
func (s *Session) AddItem(cat CatalogReader, medicineID string) (domain.BillLine, error) {
	med, ok := cat.Get(medicineID)
	if !ok {
		return domain.BillLine{}, domain.ErrNotFound
	}
	if med.Stock <= 0 {
		return domain.BillLine{}, domain.ErrOutOfStock
	}

	if idx := s.indexOf(medicineID); idx >= 0 {
		line := s.lines[idx]
		if line.Quantity >= med.Stock {
			return domain.BillLine{}, domain.ErrOutOfStock
		}
		line.Quantity++
		line.Name = med.Name
		line.UnitPriceCents = med.PriceCents
		line.LineTotalCents = int64(line.Quantity) * line.UnitPriceCents
		s.lines[idx] = line
		return line, nil
	}

	line := domain.BillLine{
		MedicineID:     med.ID,
		Name:           med.Name,
		UnitPriceCents: med.PriceCents,
		Quantity:       1,
		LineTotalCents: med.PriceCents,
	}
	s.lines = append(s.lines, line)
	return line, nil
}

// SetQuantity replaces a line's quantity. A quantity of zero or less
// removes the line. The line total is recomputed from the snapshotted
// unit price, not the current catalog price. Changing the quantity of a
// line whose medicine has been deleted fails with not-found; a missing
// line for an existing medicine is a silent no-op.
func (s *Session) SetQuantity(cat CatalogReader, medicineID string, quantity int) error {
	med, ok := cat.Get(medicineID)
	if !ok {
		return domain.ErrNotFound
	}

	idx := s.indexOf(medicineID)
	if idx < 0 {
		return nil
	}

	if quantity <= 0 {
		s.RemoveItem(medicineID)
		return nil
	}
	if quantity > med.Stock {
		return domain.ErrExceedsStock
	}

	line := s.lines[idx]
	line.Quantity = quantity
	line.LineTotalCents = int64(quantity) * line.UnitPriceCents
	s.lines[idx] = line
	return nil
}

// RemoveItem drops the line if present; absence is a no-op.
func (s *Session) RemoveItem(medicineID string) {
	idx := s.indexOf(medicineID)
	if idx < 0 {
		return
	}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
}

// Lines returns a deep copy of the current bill lines.
func (s *Session) Lines() []domain.BillLine {
	out := make([]domain.BillLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// TotalCents sums all line totals; zero for an empty session.
func (s *Session) TotalCents() int64 {
	var total int64
	for _, line := range s.lines {
		total += line.LineTotalCents
	}
	return total
}

func (s *Session) Empty() bool {
	return len(s.lines) == 0
}

// Clear empties the session, on checkout or explicit reset.
func (s *Session) Clear() {
	s.lines = nil
}

func (s *Session) indexOf(medicineID string) int {
	for i, line := range s.lines {
		if line.MedicineID == medicineID {
			return i
		}
	}
	return -1
}
