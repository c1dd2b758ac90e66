package analytics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sunnysdady/orderpulse/internal/core/calendar"
	"github.com/sunnysdady/orderpulse/internal/core/columns"
	"github.com/sunnysdady/orderpulse/internal/core/table"
)

// ErrColumnNotFound marks a timestamp column that does not exist in the frame.
var ErrColumnNotFound = errors.New("timestamp column not found")

// ExtractDimensions turns a raw frame into a dimensioned dataset using the
// named timestamp column. Rows whose timestamp cell cannot be parsed are
// dropped and counted, never defaulted. Fails only when the timestamp column
// itself is missing.
func ExtractDimensions(f *table.Frame, timeColumn string, cols columns.Map) (*Dataset, error) {
	tsIdx, ok := f.ColumnIndex(timeColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, timeColumn)
	}

	lookup := func(name string) int {
		if name == "" {
			return -1
		}
		idx, ok := f.ColumnIndex(name)
		if !ok {
			return -1
		}
		return idx
	}

	orderIdx := lookup(cols.OrderID)
	skuIdx := lookup(cols.SKU)
	titleIdx := lookup(cols.Title)
	qtyIdx := lookup(cols.Quantity)
	saleIdx := lookup(cols.SaleAmount)
	purchaseIdx := lookup(cols.PurchaseAmount)

	ds := &Dataset{Columns: cols}
	ds.Orders = make([]Order, 0, f.NumRows())

	for i := 0; i < f.NumRows(); i++ {
		row := f.Row(i)

		ts, ok := calendar.ParseTimestamp(row[tsIdx])
		if !ok {
			ds.Dropped++
			continue
		}

		o := Order{
			Timestamp: ts,
			Hour:      ts.Hour(),
			Weekday:   calendar.Of(ts),
			Day:       calendar.DayOf(ts),
		}
		if orderIdx >= 0 {
			o.OrderID = strings.TrimSpace(row[orderIdx])
		}
		if skuIdx >= 0 {
			o.SKU = strings.TrimSpace(row[skuIdx])
		}
		if titleIdx >= 0 {
			o.Title = strings.TrimSpace(row[titleIdx])
		}
		if qtyIdx >= 0 {
			o.Quantity = parseMeasure(row[qtyIdx])
		}
		if saleIdx >= 0 {
			o.SaleAmount = parseMeasure(row[saleIdx])
		}
		if purchaseIdx >= 0 {
			o.PurchaseAmount = parseMeasure(row[purchaseIdx])
		}

		if ds.MinDay.IsZero() || o.Day.Before(ds.MinDay) {
			ds.MinDay = o.Day
		}
		if ds.MaxDay.IsZero() || o.Day.After(ds.MaxDay) {
			ds.MaxDay = o.Day
		}

		ds.Orders = append(ds.Orders, o)
	}

	return ds, nil
}

// parseMeasure reads a numeric cell leniently: thousands separators and
// currency prefixes are stripped, anything still unparsable counts as zero.
func parseMeasure(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimLeft(s, "$€£¥")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
