package projection

import (
	"github.com/sunnysdady/orderpulse/internal/core/analytics"
)

// RangeQuery carries the date-range selection shared by every aggregate
// endpoint. Either a preset, or start+end for a custom range; with nothing
// bound the whole observed span is used.
type RangeQuery struct {
	Preset string `form:"preset"`
	Start  string `form:"start"` // YYYY-MM-DD
	End    string `form:"end"`   // YYYY-MM-DD
}

// RangeInfo echoes the resolved interval back to the caller.
type RangeInfo struct {
	Preset string `json:"preset"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// HourlyResponse is the densified per-hour aggregate: always 24 rows.
type HourlyResponse struct {
	Range  RangeInfo             `json:"range"`
	Rows   int                   `json:"rows"`
	Values []analytics.HourCount `json:"values"`
}

// WeekdayResponse is the densified per-weekday aggregate: always 7 rows.
type WeekdayResponse struct {
	Range  RangeInfo                `json:"range"`
	Rows   int                      `json:"rows"`
	Values []analytics.WeekdayCount `json:"values"`
}

// HeatmapResponse is the weekday×hour cross aggregate pivoted to a 7×24 matrix.
type HeatmapResponse struct {
	Range   RangeInfo         `json:"range"`
	Rows    int               `json:"rows"`
	Heatmap analytics.Heatmap `json:"heatmap"`
}

// RankingResponse is the per-SKU sales ranking.
type RankingResponse struct {
	Range  RangeInfo           `json:"range"`
	Sort   analytics.SortKey   `json:"sort"`
	Values []analytics.SKUStat `json:"values"`
}

// ComparisonResponse is the multi-period comparison table plus the day-level
// headline metrics, both anchored at the reference date.
type ComparisonResponse struct {
	Date     string                 `json:"date"`
	Headline analytics.Headline     `json:"headline"`
	Values   []analytics.Comparison `json:"values"`
}

// TrendResponse is the day-over-day anomaly check over the selected range.
type TrendResponse struct {
	Range  RangeInfo            `json:"range"`
	Signal analytics.Signal     `json:"signal"`
	Totals []analytics.DayTotal `json:"totals"`
}
