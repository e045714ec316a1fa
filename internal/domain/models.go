package domain

import "time"

// Medicine is a catalog entry. ID and DateAdded are assigned at creation
// and never change; everything else is replaceable via edit. Stock is
// additionally decremented by checkout.
type Medicine struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	PriceCents int64     `json:"price_cents"`
	Stock      int       `json:"stock"`
	Expiry     time.Time `json:"expiry"`
	DateAdded  time.Time `json:"date_added"`
}

// MedicineInput is the full field set supplied on create and edit.
// Expiry is a calendar date in 2006-01-02 form.
type MedicineInput struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int64  `json:"price_cents"`
	Stock      int    `json:"stock"`
	Expiry     string `json:"expiry"`
}

// Status is derived from stock and expiry against the current date.
// It is recomputed on every read and never persisted.
type Status string

const (
	StatusExpired  Status = "expired"
	StatusLowStock Status = "low_stock"
	StatusInStock  Status = "in_stock"
)

// LowStockThreshold is the stock level below which a non-expired
// medicine is reported as low_stock.
const LowStockThreshold = 10

// Categories is the fixed set of accepted medicine categories.
var Categories = []string{
	"tablets",
	"capsules",
	"syrups",
	"injections",
	"ointments",
	"drops",
	"others",
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// MedicineView pairs a catalog entry with its derived status for read-side
// responses.
type MedicineView struct {
	Medicine
	Status Status `json:"status"`
}

// BillLine is one entry of the transient billing session. MedicineID is a
// weak reference resolved against the catalog at use time; UnitPriceCents
// is snapshotted at add time.
type BillLine struct {
	MedicineID     string `json:"medicine_id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	LineTotalCents int64  `json:"line_total_cents"`
}

// BillView is the read-side shape of the current billing session.
type BillView struct {
	Lines      []BillLine `json:"lines"`
	TotalCents int64      `json:"total_cents"`
}

// WalkInCustomer is the placeholder used when checkout is given a blank
// customer name.
const WalkInCustomer = "Walk-in Customer"

// Sale is an immutable record of a completed checkout. Lines are a deep
// copy of the session at finalize time and never alias live session state.
type Sale struct {
	ID           string     `json:"id"`
	Timestamp    time.Time  `json:"timestamp"`
	CustomerName string     `json:"customer_name"`
	Lines        []BillLine `json:"lines"`
	TotalCents   int64      `json:"total_cents"`
}

// InventorySummary backs the header statistics of the storefront.
type InventorySummary struct {
	TotalMedicines int `json:"total_medicines"`
	LowStockCount  int `json:"low_stock_count"`
	ExpiredCount   int `json:"expired_count"`
}

// CategoryValuation is one group of the stock valuation report.
type CategoryValuation struct {
	Category   string `json:"category"`
	Items      int    `json:"items"`
	ValueCents int64  `json:"value_cents"`
}

// StockValuation groups the catalog by category in first-seen order,
// valuing each group at price x stock.
type StockValuation struct {
	TotalCents int64               `json:"total_cents"`
	Categories []CategoryValuation `json:"categories"`
}

// ExpiryReport partitions the catalog into already-expired entries and
// entries expiring within the alert window, both in catalog order.
type ExpiryReport struct {
	Expired      []Medicine `json:"expired"`
	ExpiringSoon []Medicine `json:"expiring_soon"`
	AllClear     bool       `json:"all_clear"`
}

// Receipt is the plain-text rendering of a finalized sale, handed to an
// external save-as-file collaborator.
type Receipt struct {
	SaleID   string `json:"sale_id"`
	Text     string `json:"text"`
	FileName string `json:"file_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

const (
	RoleAdmin      = "admin"
	RolePharmacist = "pharmacist"
)

// Event kinds published to presentation-layer subscribers.
const (
	EventCatalogChanged = "catalog_changed"
	EventSessionChanged = "session_changed"
	EventSaleFinalized  = "sale_finalized"
)

// Event is a change notification for the presentation layer.
type Event struct {
	Kind   string    `json:"kind"`
	At     time.Time `json:"at"`
	SaleID string    `json:"sale_id,omitempty"`
}
