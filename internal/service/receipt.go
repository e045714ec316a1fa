package service

import (
	"context"
	"fmt"
	"strings"

	"medstore/backend/internal/domain"
)

// Receipt renders the plain-text receipt for a finalized sale, ready for
// an external save-as-file collaborator. The sale id must reference an
// entry of the sales log.
func (s *Service) Receipt(ctx context.Context, saleID string) (domain.Receipt, error) {
	sale, err := s.GetSale(ctx, saleID)
	if err != nil {
		return domain.Receipt{}, err
	}

	lines := []string{
		s.info.Name,
		"Medical Store Receipt",
	}
	if s.info.Address != "" {
		lines = append(lines, s.info.Address)
	}
	if s.info.Phone != "" {
		lines = append(lines, "Contact: "+s.info.Phone)
	}
	lines = append(lines,
		"========================",
		"Bill ID: "+sale.ID,
		"Date: "+sale.Timestamp.Format("2006-01-02 15:04:05"),
		"Customer: "+sale.CustomerName,
		"------------------------",
	)
	for _, item := range sale.Lines {
		lines = append(lines, item.Name)
		lines = append(lines, fmt.Sprintf("  %d x %s = %s",
			item.Quantity, rupees(item.UnitPriceCents), rupees(item.LineTotalCents)))
	}
	lines = append(lines,
		"------------------------",
		"Total Amount: "+rupees(sale.TotalCents),
		"========================",
		"Thank you for your business!",
		"Have a healthy day!",
		"",
	)

	return domain.Receipt{
		SaleID:   sale.ID,
		Text:     strings.Join(lines, "\n"),
		FileName: fmt.Sprintf("receipt_%s.txt", sale.Timestamp.Format("2006-01-02_15-04-05")),
	}, nil
}

func rupees(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, cents/100, cents%100)
}
