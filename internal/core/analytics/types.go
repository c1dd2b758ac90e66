package analytics

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sunnysdady/orderpulse/internal/core/calendar"
	"github.com/sunnysdady/orderpulse/internal/core/columns"
)

// Order is one dimensioned row of an uploaded export. Immutable once derived:
// every transform takes orders as input and builds new output tables.
type Order struct {
	Timestamp time.Time
	Hour      int // 0-23, naive clock
	Weekday   calendar.Weekday
	Day       time.Time // midnight-truncated; the grain of range filtering

	OrderID        string
	SKU            string
	Title          string
	Quantity       decimal.Decimal
	SaleAmount     decimal.Decimal
	PurchaseAmount decimal.Decimal
}

// Dataset is the dimensioned table plus derivation diagnostics. It is the
// session-scoped snapshot every aggregate is computed from; nothing mutates
// it in place.
type Dataset struct {
	Orders  []Order
	Dropped int // rows excluded because the timestamp cell failed to parse

	// Observed day span. Zero when the dataset has no valid rows.
	MinDay time.Time
	MaxDay time.Time

	// Resolved header per canonical field; empty means absent from the upload.
	Columns columns.Map
}

// HasSKU reports whether SKU-based aggregates are available.
func (d *Dataset) HasSKU() bool { return d.Columns.SKU != "" }

// HasQuantity reports whether quantity totals are available.
func (d *Dataset) HasQuantity() bool { return d.Columns.Quantity != "" }

// Empty reports whether the dataset holds no valid rows.
func (d *Dataset) Empty() bool { return len(d.Orders) == 0 }
