package analytics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sunnysdady/orderpulse/internal/core/columns"
)

// SortKey selects the ranking order of the SKU table.
type SortKey string

const (
	SortByQuantity SortKey = "by-quantity"
	SortByRevenue  SortKey = "by-revenue"
)

// ValidSortKey reports whether key is a recognized ranking sort.
func ValidSortKey(key SortKey) bool {
	return key == SortByQuantity || key == SortByRevenue
}

// ErrUnknownSortKey marks a sort key outside the recognized set. Callers
// should treat it as a request-validation failure, not an internal one.
var ErrUnknownSortKey = errors.New("unknown sort key")

// ErrMissingField marks an aggregate whose required source column is absent
// from the upload. The aggregate is not computed — callers get no partial output.
var ErrMissingField = errors.New("missing required field")

// MissingFieldError identifies which canonical field is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// SKUStat is one row of the per-SKU ranking table. Money and ratio fields
// are rounded to 2 decimal places; the sums behind them are computed at
// full precision.
type SKUStat struct {
	Rank         int             `json:"rank"`
	SKU          string          `json:"sku"`
	Title        string          `json:"title,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Orders       int64           `json:"orders"` // distinct order IDs
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	SaleRevenue  decimal.Decimal `json:"sale_revenue"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`
	AvgUnitPrice decimal.Decimal `json:"avg_unit_price"`
}

// requireRankingFields checks the canonical columns the ranking table
// cannot be computed without.
func requireRankingFields(cols columns.Map) error {
	checks := []struct {
		field  string
		header string
	}{
		{columns.FieldSKU, cols.SKU},
		{columns.FieldQuantity, cols.Quantity},
		{columns.FieldSaleAmount, cols.SaleAmount},
		{columns.FieldPurchaseAmount, cols.PurchaseAmount},
		{columns.FieldOrderID, cols.OrderID},
	}
	for _, c := range checks {
		if c.header == "" {
			return &MissingFieldError{Field: c.field}
		}
	}
	return nil
}

type skuAccumulator struct {
	title    string
	quantity decimal.Decimal
	purchase decimal.Decimal
	sale     decimal.Decimal
	orderIDs map[string]struct{}
}

// RankSKUs groups the given orders by SKU and computes the sales ranking.
// All of sku, quantity, sale_amount, purchase_amount and order_id must be
// present in the dataset; otherwise a MissingFieldError is returned and no
// rows are produced.
func RankSKUs(ds *Dataset, orders []Order, key SortKey) ([]SKUStat, error) {
	if err := requireRankingFields(ds.Columns); err != nil {
		return nil, err
	}
	if !ValidSortKey(key) {
		return nil, fmt.Errorf("%w %q", ErrUnknownSortKey, key)
	}

	acc := make(map[string]*skuAccumulator)
	for _, o := range orders {
		a, ok := acc[o.SKU]
		if !ok {
			a = &skuAccumulator{orderIDs: make(map[string]struct{})}
			acc[o.SKU] = a
		}
		a.quantity = a.quantity.Add(o.Quantity)
		a.purchase = a.purchase.Add(o.PurchaseAmount)
		a.sale = a.sale.Add(o.SaleAmount)
		if o.OrderID != "" {
			a.orderIDs[o.OrderID] = struct{}{}
		}
		if o.Title != "" {
			a.title = o.Title // last value wins
		}
	}

	stats := make([]SKUStat, 0, len(acc))
	for sku, a := range acc {
		stats = append(stats, SKUStat{
			SKU:          sku,
			Title:        a.title,
			Quantity:     a.quantity,
			Orders:       int64(len(a.orderIDs)),
			PurchaseCost: a.purchase.Round(2),
			SaleRevenue:  a.sale.Round(2),
			NetRevenue:   a.sale.Sub(a.purchase).Round(2),
			AvgUnitPrice: avgUnitPrice(a.sale, a.quantity),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		var cmp int
		switch key {
		case SortByRevenue:
			cmp = stats[i].SaleRevenue.Cmp(stats[j].SaleRevenue)
		default:
			cmp = stats[i].Quantity.Cmp(stats[j].Quantity)
		}
		if cmp != 0 {
			return cmp > 0 // descending
		}
		return stats[i].SKU < stats[j].SKU
	})

	for i := range stats {
		stats[i].Rank = i + 1
	}
	return stats, nil
}

// avgUnitPrice is revenue/quantity, defined as zero when quantity is zero.
func avgUnitPrice(revenue, quantity decimal.Decimal) decimal.Decimal {
	if quantity.IsZero() {
		return decimal.Zero
	}
	return revenue.DivRound(quantity, 2)
}
