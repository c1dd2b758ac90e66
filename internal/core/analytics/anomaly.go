package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Signal classifies the day-over-day movement of the latest two daily totals.
type Signal string

const (
	SignalSpike        Signal = "spike"
	SignalDrop         Signal = "drop"
	SignalStable       Signal = "stable"
	SignalInsufficient Signal = "insufficient-data"
)

// DefaultAnomalyThresholdPct is the day-over-day percentage beyond which a
// change counts as a spike or drop. Carried over from the source system as a
// configurable constant.
const DefaultAnomalyThresholdPct = 30.0

// DayTotal is the quantity total of one calendar date.
type DayTotal struct {
	Day      time.Time       `json:"day"`
	Quantity decimal.Decimal `json:"quantity"`
}

// DailyTotals sums quantity per calendar date, ascending by date. When the
// dataset has no quantity column each row counts as one unit, so the trend
// check still works on pure timestamp exports.
func DailyTotals(orders []Order, hasQuantity bool) []DayTotal {
	totals := make(map[time.Time]decimal.Decimal)
	for _, o := range orders {
		qty := decimal.NewFromInt(1)
		if hasQuantity {
			qty = o.Quantity
		}
		totals[o.Day] = totals[o.Day].Add(qty)
	}

	out := make([]DayTotal, 0, len(totals))
	for day, qty := range totals {
		out = append(out, DayTotal{Day: day, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// ClassifyTrend compares the most recent two daily totals against a
// percentage threshold. Fewer than 3 distinct dates is insufficient data and
// no comparison is made. A prior-day total of zero is a spike when the recent
// day is non-zero, otherwise stable.
func ClassifyTrend(totals []DayTotal, thresholdPct float64) Signal {
	if len(totals) < 3 {
		return SignalInsufficient
	}

	recent := totals[len(totals)-1].Quantity
	prior := totals[len(totals)-2].Quantity

	if prior.IsZero() {
		if recent.IsPositive() {
			return SignalSpike
		}
		return SignalStable
	}

	threshold := decimal.NewFromFloat(thresholdPct)
	change := recent.Sub(prior).Div(prior).Mul(decimal.NewFromInt(100))
	switch {
	case change.GreaterThanOrEqual(threshold):
		return SignalSpike
	case change.LessThanOrEqual(threshold.Neg()):
		return SignalDrop
	default:
		return SignalStable
	}
}
