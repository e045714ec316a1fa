// Package report computes the read-only summaries shown on the reports
// tab. Everything here is a pure function over catalog and sales-log
// snapshots; nothing is cached or mutated.
package report

import (
	"time"

	"medstore/backend/internal/catalog"
	"medstore/backend/internal/domain"
)

// ExpiryWindow is how far ahead the expiring-soon alert looks.
const ExpiryWindow = 30 * 24 * time.Hour

// RecentSalesLimit is the default size of the recent-sales view.
const RecentSalesLimit = 10

// Valuation groups the catalog by category, valuing each group at
// price x stock. Group order is first-seen order while walking the
// catalog.
func Valuation(medicines []domain.Medicine) domain.StockValuation {
	valuation := domain.StockValuation{}
	index := map[string]int{}

	for _, med := range medicines {
		value := med.PriceCents * int64(med.Stock)
		valuation.TotalCents += value

		i, ok := index[med.Category]
		if !ok {
			i = len(valuation.Categories)
			index[med.Category] = i
			valuation.Categories = append(valuation.Categories, domain.CategoryValuation{Category: med.Category})
		}
		valuation.Categories[i].Items++
		valuation.Categories[i].ValueCents += value
	}

	return valuation
}

// ExpiryAlerts partitions the catalog into expired entries and entries
// expiring within the window, each in catalog order. AllClear is set
// only when both partitions are empty.
func ExpiryAlerts(medicines []domain.Medicine, today time.Time) domain.ExpiryReport {
	day := catalog.DateOf(today)
	horizon := day.Add(ExpiryWindow)

	rep := domain.ExpiryReport{}
	for _, med := range medicines {
		expiry := catalog.DateOf(med.Expiry)
		switch {
		case expiry.Before(day):
			rep.Expired = append(rep.Expired, med)
		case !expiry.After(horizon):
			rep.ExpiringSoon = append(rep.ExpiringSoon, med)
		}
	}
	rep.AllClear = len(rep.Expired) == 0 && len(rep.ExpiringSoon) == 0
	return rep
}

// RecentSales returns the last n entries of the append-only sales log,
// most recent first. The log's append order is its chronological order.
func RecentSales(sales []domain.Sale, n int) []domain.Sale {
	if n <= 0 {
		n = RecentSalesLimit
	}
	start := len(sales) - n
	if start < 0 {
		start = 0
	}

	recent := make([]domain.Sale, 0, len(sales)-start)
	for i := len(sales) - 1; i >= start; i-- {
		recent = append(recent, sales[i])
	}
	return recent
}
