package projection

import (
	"errors"
	"fmt"

	"github.com/sunnysdady/orderpulse/internal/core/analytics"
	"github.com/sunnysdady/orderpulse/internal/core/calendar"
	"github.com/sunnysdady/orderpulse/internal/dataset"
)

// ErrInvalidQuery marks request validation errors that should return HTTP 400.
var ErrInvalidQuery = errors.New("invalid aggregate query")

// Service implements the query layer: it resolves the requested date range
// against the current snapshot and runs the aggregation pipeline over the
// filtered orders. Every query recomputes from the immutable snapshot;
// there is no incremental caching.
type Service struct {
	store               *dataset.Store
	anomalyThresholdPct float64
}

// NewService creates a new projection service.
func NewService(store *dataset.Store, anomalyThresholdPct float64) *Service {
	return &Service{
		store:               store,
		anomalyThresholdPct: anomalyThresholdPct,
	}
}

// resolve validates the range query against the snapshot's observed span and
// returns the filtered orders together with the echoed range info.
func (s *Service) resolve(snap *dataset.Snapshot, q RangeQuery) ([]analytics.Order, RangeInfo, error) {
	preset, custom, err := parseRangeQuery(q)
	if err != nil {
		return nil, RangeInfo{}, err
	}

	r, err := analytics.ResolveRange(preset, custom, snap.Data.MinDay, snap.Data.MaxDay)
	if err != nil {
		return nil, RangeInfo{}, fmt.Errorf("%w: %s", ErrInvalidQuery, err)
	}

	info := RangeInfo{
		Preset: string(preset),
		Start:  calendar.FormatDay(r.Start),
		End:    calendar.FormatDay(r.End),
	}
	return analytics.FilterRange(snap.Data.Orders, r), info, nil
}

func parseRangeQuery(q RangeQuery) (analytics.Preset, *analytics.DateRange, error) {
	if q.Start != "" || q.End != "" {
		if q.Preset != "" && q.Preset != string(analytics.PresetCustom) {
			return "", nil, invalidQueryf("preset %q conflicts with explicit start/end", q.Preset)
		}
		if q.Start == "" || q.End == "" {
			return "", nil, invalidQueryf("custom range requires both start and end")
		}
		start, err := calendar.ParseDay(q.Start)
		if err != nil {
			return "", nil, invalidQueryf("%s", err)
		}
		end, err := calendar.ParseDay(q.End)
		if err != nil {
			return "", nil, invalidQueryf("%s", err)
		}
		return analytics.PresetCustom, &analytics.DateRange{Start: start, End: end}, nil
	}

	if q.Preset == "" {
		return analytics.PresetAll, nil, nil
	}
	if q.Preset == string(analytics.PresetCustom) {
		return "", nil, invalidQueryf("custom preset requires start and end")
	}
	return analytics.Preset(q.Preset), nil, nil
}

// Hourly computes the dense per-hour aggregate over the selected range.
func (s *Service) Hourly(q RangeQuery) (*HourlyResponse, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	orders, info, err := s.resolve(snap, q)
	if err != nil {
		return nil, err
	}
	return &HourlyResponse{
		Range:  info,
		Rows:   len(orders),
		Values: analytics.HourlyCounts(orders),
	}, nil
}

// Weekday computes the dense per-weekday aggregate over the selected range.
func (s *Service) Weekday(q RangeQuery) (*WeekdayResponse, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	orders, info, err := s.resolve(snap, q)
	if err != nil {
		return nil, err
	}
	return &WeekdayResponse{
		Range:  info,
		Rows:   len(orders),
		Values: analytics.WeekdayCounts(orders),
	}, nil
}

// Heatmap computes the 7×24 weekday×hour matrix over the selected range.
func (s *Service) Heatmap(q RangeQuery) (*HeatmapResponse, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	orders, info, err := s.resolve(snap, q)
	if err != nil {
		return nil, err
	}
	return &HeatmapResponse{
		Range:   info,
		Rows:    len(orders),
		Heatmap: analytics.PivotCross(analytics.WeekdayHourCounts(orders)),
	}, nil
}

// Rankings computes the per-SKU sales ranking over the selected range.
func (s *Service) Rankings(q RangeQuery, sortKey analytics.SortKey) (*RankingResponse, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	if sortKey == "" {
		sortKey = analytics.SortByQuantity
	}
	if !analytics.ValidSortKey(sortKey) {
		return nil, invalidQueryf("unknown sort key %q", sortKey)
	}
	orders, info, err := s.resolve(snap, q)
	if err != nil {
		return nil, err
	}
	stats, err := analytics.RankSKUs(snap.Data, orders, sortKey)
	if err != nil {
		return nil, err
	}
	return &RankingResponse{Range: info, Sort: sortKey, Values: stats}, nil
}

// Comparisons computes the multi-period comparison anchored at dateStr,
// defaulting to the dataset's latest date.
func (s *Service) Comparisons(dateStr string) (*ComparisonResponse, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}

	ref := snap.Data.MaxDay
	if dateStr != "" {
		ref, err = calendar.ParseDay(dateStr)
		if err != nil {
			return nil, invalidQueryf("%s", err)
		}
	}

	rows, err := analytics.ComparePeriods(snap.Data, ref)
	if err != nil {
		return nil, err
	}
	headline, err := analytics.HeadlineMetrics(snap.Data, ref)
	if err != nil {
		return nil, err
	}
	return &ComparisonResponse{
		Date:     calendar.FormatDay(calendar.DayOf(ref)),
		Headline: headline,
		Values:   rows,
	}, nil
}

// Trend classifies the day-over-day movement within the selected range.
func (s *Service) Trend(q RangeQuery) (*TrendResponse, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	orders, info, err := s.resolve(snap, q)
	if err != nil {
		return nil, err
	}

	totals := analytics.DailyTotals(orders, snap.Data.HasQuantity())
	return &TrendResponse{
		Range:  info,
		Signal: analytics.ClassifyTrend(totals, s.anomalyThresholdPct),
		Totals: totals,
	}, nil
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
