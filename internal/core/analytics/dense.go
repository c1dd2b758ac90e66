package analytics

import (
	"github.com/sunnysdady/orderpulse/internal/core/calendar"
)

// The densifying aggregator: group-by-count followed by reindexing over the
// full declared domain of the key(s). Reindexing is what keeps charts free of
// gaps — an hourly aggregate always has 24 rows, a weekday aggregate 7, the
// cross aggregate 168, with zero counts where no rows matched.

// HourCount is one row of the hourly aggregate.
type HourCount struct {
	Hour   int   `json:"hour"`
	Orders int64 `json:"orders"`
}

// WeekdayCount is one row of the weekday aggregate.
type WeekdayCount struct {
	Weekday calendar.Weekday `json:"weekday"`
	Orders  int64            `json:"orders"`
}

// CrossCount is one cell of the weekday×hour aggregate.
type CrossCount struct {
	Weekday calendar.Weekday `json:"weekday"`
	Hour    int              `json:"hour"`
	Orders  int64            `json:"orders"`
}

// CrossKey addresses one cell of the weekday×hour domain.
type CrossKey struct {
	Weekday calendar.Weekday
	Hour    int
}

// HourlyCounts counts orders per hour of day, densified to all 24 hours.
func HourlyCounts(orders []Order) []HourCount {
	counts := make(map[int]int64, 24)
	for _, o := range orders {
		counts[o.Hour]++
	}
	return DensifyHours(counts)
}

// DensifyHours reindexes an hour→count mapping over hours 0..23 ascending.
// Hours outside the domain are discarded; missing hours become zero.
func DensifyHours(counts map[int]int64) []HourCount {
	out := make([]HourCount, 24)
	for h := 0; h < 24; h++ {
		out[h] = HourCount{Hour: h, Orders: counts[h]}
	}
	return out
}

// WeekdayCounts counts orders per weekday, densified to all 7 weekdays in
// Monday-first order.
func WeekdayCounts(orders []Order) []WeekdayCount {
	counts := make(map[calendar.Weekday]int64, 7)
	for _, o := range orders {
		counts[o.Weekday]++
	}
	return DensifyWeekdays(counts)
}

// DensifyWeekdays reindexes a weekday→count mapping over the fixed weekday order.
func DensifyWeekdays(counts map[calendar.Weekday]int64) []WeekdayCount {
	out := make([]WeekdayCount, 0, 7)
	for _, w := range calendar.Order {
		out = append(out, WeekdayCount{Weekday: w, Orders: counts[w]})
	}
	return out
}

// WeekdayHourCounts counts orders per (weekday, hour) cell, densified to the
// full 168-cell cross product, weekday-major in fixed weekday order.
func WeekdayHourCounts(orders []Order) []CrossCount {
	counts := make(map[CrossKey]int64)
	for _, o := range orders {
		counts[CrossKey{Weekday: o.Weekday, Hour: o.Hour}]++
	}
	return DensifyCross(counts)
}

// DensifyCross reindexes a cross-cell mapping over all 7×24 combinations.
func DensifyCross(counts map[CrossKey]int64) []CrossCount {
	out := make([]CrossCount, 0, 7*24)
	for _, w := range calendar.Order {
		for h := 0; h < 24; h++ {
			out = append(out, CrossCount{Weekday: w, Hour: h, Orders: counts[CrossKey{Weekday: w, Hour: h}]})
		}
	}
	return out
}

// Heatmap is the 7×24 pivot of the cross aggregate, shaped for rendering:
// one row per weekday in fixed order, one column per hour 0..23.
type Heatmap struct {
	Weekdays []calendar.Weekday `json:"weekdays"`
	Hours    []int              `json:"hours"`
	Cells    [][]int64          `json:"cells"` // Cells[weekday][hour]
}

// PivotCross pivots the dense cross aggregate into a Heatmap.
func PivotCross(cells []CrossCount) Heatmap {
	hm := Heatmap{
		Weekdays: make([]calendar.Weekday, 0, 7),
		Hours:    make([]int, 24),
		Cells:    make([][]int64, 7),
	}
	for _, w := range calendar.Order {
		hm.Weekdays = append(hm.Weekdays, w)
	}
	for h := 0; h < 24; h++ {
		hm.Hours[h] = h
	}
	for i := range hm.Cells {
		hm.Cells[i] = make([]int64, 24)
	}
	for _, c := range cells {
		if c.Weekday < 0 || c.Weekday > 6 || c.Hour < 0 || c.Hour > 23 {
			continue
		}
		hm.Cells[c.Weekday][c.Hour] += c.Orders
	}
	return hm
}
