package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sunnysdady/orderpulse/internal/core/calendar"
	"github.com/sunnysdady/orderpulse/internal/core/columns"
)

// Trailing window sizes in days. Hard-coded business rules carried over from
// the source system; windows end at the reference day inclusive.
const (
	TrailingShortDays  = 7
	TrailingMediumDays = 14
	TrailingLongDays   = 30
)

// PeriodDetail holds the per-SKU metrics of one day-level window.
type PeriodDetail struct {
	Quantity decimal.Decimal `json:"quantity"`
	Orders   int64           `json:"orders"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// Comparison is one row of the multi-period comparison table: one SKU,
// six windows anchored at the reference date. A SKU active in any window
// appears exactly once, with zeros for the windows it was absent from.
type Comparison struct {
	SKU   string `json:"sku"`
	Title string `json:"title,omitempty"`

	Today      PeriodDetail `json:"today"`
	Yesterday  PeriodDetail `json:"yesterday"`
	WeekAgoDay PeriodDetail `json:"week_ago_day"` // same weekday one week prior

	// Trailing windows carry quantity only, matching the ranking display.
	Trailing7  decimal.Decimal `json:"trailing_7"`
	Trailing14 decimal.Decimal `json:"trailing_14"`
	Trailing30 decimal.Decimal `json:"trailing_30"`
}

// requireComparisonFields checks the columns the comparator needs.
// Purchase cost never appears in comparison output, so it is not required.
func requireComparisonFields(cols columns.Map) error {
	checks := []struct {
		field  string
		header string
	}{
		{columns.FieldSKU, cols.SKU},
		{columns.FieldQuantity, cols.Quantity},
		{columns.FieldSaleAmount, cols.SaleAmount},
		{columns.FieldOrderID, cols.OrderID},
	}
	for _, c := range checks {
		if c.header == "" {
			return &MissingFieldError{Field: c.field}
		}
	}
	return nil
}

type periodAccumulator struct {
	quantity decimal.Decimal
	revenue  decimal.Decimal
	orderIDs map[string]struct{}
}

func newPeriodAccumulator() *periodAccumulator {
	return &periodAccumulator{orderIDs: make(map[string]struct{})}
}

func (a *periodAccumulator) add(o Order) {
	a.quantity = a.quantity.Add(o.Quantity)
	a.revenue = a.revenue.Add(o.SaleAmount)
	if o.OrderID != "" {
		a.orderIDs[o.OrderID] = struct{}{}
	}
}

func (a *periodAccumulator) detail() PeriodDetail {
	return PeriodDetail{
		Quantity: a.quantity,
		Orders:   int64(len(a.orderIDs)),
		Revenue:  a.revenue.Round(2),
	}
}

// inWindow reports whether day falls within [start, end] inclusive.
func inWindow(day, start, end time.Time) bool {
	return !day.Before(start) && !day.After(end)
}

// ComparePeriods computes the per-SKU multi-period comparison anchored at
// reference date ref (midnight-truncated). Six windows, all endpoint-inclusive:
// today [ref,ref], yesterday [ref-1,ref-1], same weekday last week [ref-7,ref-7],
// and the trailing 7/14/30-day windows ending at ref. The result is the full
// outer union over every SKU observed in any window.
func ComparePeriods(ds *Dataset, ref time.Time) ([]Comparison, error) {
	if err := requireComparisonFields(ds.Columns); err != nil {
		return nil, err
	}

	ref = calendar.DayOf(ref)
	yesterday := calendar.AddDays(ref, -1)
	weekAgo := calendar.AddDays(ref, -7)
	trail7Start := calendar.AddDays(ref, -(TrailingShortDays - 1))
	trail14Start := calendar.AddDays(ref, -(TrailingMediumDays - 1))
	trail30Start := calendar.AddDays(ref, -(TrailingLongDays - 1))

	type skuWindows struct {
		today      *periodAccumulator
		yesterday  *periodAccumulator
		weekAgoDay *periodAccumulator
		trailing7  decimal.Decimal
		trailing14 decimal.Decimal
		trailing30 decimal.Decimal
	}

	acc := make(map[string]*skuWindows)
	titles := make(map[string]string)

	for _, o := range ds.Orders {
		// Titles join against the full dataset, not just the windows,
		// so a SKU renamed mid-range still gets its latest label.
		if o.Title != "" {
			titles[o.SKU] = o.Title
		}

		// The trailing-30 window [ref-29, ref] covers every other window,
		// week-ago day included.
		if !inWindow(o.Day, trail30Start, ref) {
			continue
		}

		w, ok := acc[o.SKU]
		if !ok {
			w = &skuWindows{
				today:      newPeriodAccumulator(),
				yesterday:  newPeriodAccumulator(),
				weekAgoDay: newPeriodAccumulator(),
			}
			acc[o.SKU] = w
		}

		if o.Day.Equal(ref) {
			w.today.add(o)
		}
		if o.Day.Equal(yesterday) {
			w.yesterday.add(o)
		}
		if o.Day.Equal(weekAgo) {
			w.weekAgoDay.add(o)
		}
		if inWindow(o.Day, trail7Start, ref) {
			w.trailing7 = w.trailing7.Add(o.Quantity)
		}
		if inWindow(o.Day, trail14Start, ref) {
			w.trailing14 = w.trailing14.Add(o.Quantity)
		}
		if inWindow(o.Day, trail30Start, ref) {
			w.trailing30 = w.trailing30.Add(o.Quantity)
		}
	}

	out := make([]Comparison, 0, len(acc))
	for sku, w := range acc {
		out = append(out, Comparison{
			SKU:        sku,
			Title:      titles[sku],
			Today:      w.today.detail(),
			Yesterday:  w.yesterday.detail(),
			WeekAgoDay: w.weekAgoDay.detail(),
			Trailing7:  w.trailing7,
			Trailing14: w.trailing14,
			Trailing30: w.trailing30,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		cmp := out[i].Today.Quantity.Cmp(out[j].Today.Quantity)
		if cmp != 0 {
			return cmp > 0
		}
		cmp = out[i].Trailing30.Cmp(out[j].Trailing30)
		if cmp != 0 {
			return cmp > 0
		}
		return out[i].SKU < out[j].SKU
	})

	return out, nil
}

// DayStat is the day-level headline of one anchor date.
type DayStat struct {
	Quantity     decimal.Decimal `json:"quantity"`
	Revenue      decimal.Decimal `json:"revenue"`
	Orders       int64           `json:"orders"`
	AvgUnitPrice decimal.Decimal `json:"avg_unit_price"`
}

// Headline holds the single-day summary metrics for the three day anchors,
// plus today-vs-yesterday percentage changes. A change is nil when
// yesterday's value is zero — rendered as a sentinel, never a division error.
type Headline struct {
	Today      DayStat `json:"today"`
	Yesterday  DayStat `json:"yesterday"`
	WeekAgoDay DayStat `json:"week_ago_day"`

	QuantityChangePct *decimal.Decimal `json:"quantity_change_pct"`
	RevenueChangePct  *decimal.Decimal `json:"revenue_change_pct"`
	OrdersChangePct   *decimal.Decimal `json:"orders_change_pct"`
	AvgPriceChangePct *decimal.Decimal `json:"avg_price_change_pct"`
}

// HeadlineMetrics computes the day-level summary for ref, ref-1 and ref-7.
func HeadlineMetrics(ds *Dataset, ref time.Time) (Headline, error) {
	if err := requireComparisonFields(ds.Columns); err != nil {
		return Headline{}, err
	}

	ref = calendar.DayOf(ref)
	days := [3]time.Time{ref, calendar.AddDays(ref, -1), calendar.AddDays(ref, -7)}
	accs := [3]*periodAccumulator{newPeriodAccumulator(), newPeriodAccumulator(), newPeriodAccumulator()}

	for _, o := range ds.Orders {
		for i, day := range days {
			if o.Day.Equal(day) {
				accs[i].add(o)
			}
		}
	}

	stat := func(a *periodAccumulator) DayStat {
		return DayStat{
			Quantity:     a.quantity,
			Revenue:      a.revenue.Round(2),
			Orders:       int64(len(a.orderIDs)),
			AvgUnitPrice: avgUnitPrice(a.revenue, a.quantity),
		}
	}

	h := Headline{
		Today:      stat(accs[0]),
		Yesterday:  stat(accs[1]),
		WeekAgoDay: stat(accs[2]),
	}
	h.QuantityChangePct = pctChange(h.Today.Quantity, h.Yesterday.Quantity)
	h.RevenueChangePct = pctChange(h.Today.Revenue, h.Yesterday.Revenue)
	h.OrdersChangePct = pctChange(decimal.NewFromInt(h.Today.Orders), decimal.NewFromInt(h.Yesterday.Orders))
	h.AvgPriceChangePct = pctChange(h.Today.AvgUnitPrice, h.Yesterday.AvgUnitPrice)
	return h, nil
}

// pctChange is (today-yesterday)/yesterday*100 rounded to 2dp, or nil when
// yesterday is zero.
func pctChange(today, yesterday decimal.Decimal) *decimal.Decimal {
	if yesterday.IsZero() {
		return nil
	}
	change := today.Sub(yesterday).
		Div(yesterday).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	return &change
}
