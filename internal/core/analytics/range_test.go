package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sunnysdady/orderpulse/internal/core/calendar"
)

func day(s string) time.Time {
	d, err := calendar.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestResolveRange_Presets(t *testing.T) {
	minDay := day("2024-01-15")
	maxDay := day("2024-03-10")

	tests := []struct {
		name      string
		preset    Preset
		wantStart string
		wantEnd   string
	}{
		{name: "today", preset: PresetToday, wantStart: "2024-03-10", wantEnd: "2024-03-10"},
		{name: "yesterday", preset: PresetYesterday, wantStart: "2024-03-09", wantEnd: "2024-03-09"},
		{name: "last-7 spans 7 days", preset: PresetLast7, wantStart: "2024-03-04", wantEnd: "2024-03-10"},
		{name: "last-14", preset: PresetLast14, wantStart: "2024-02-26", wantEnd: "2024-03-10"},
		{name: "last-30", preset: PresetLast30, wantStart: "2024-02-10", wantEnd: "2024-03-10"},
		{name: "last calendar month", preset: PresetLastMonth, wantStart: "2024-02-01", wantEnd: "2024-02-29"},
		{name: "all", preset: PresetAll, wantStart: "2024-01-15", wantEnd: "2024-03-10"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := ResolveRange(tc.preset, nil, minDay, maxDay)
			require.NoError(t, err)
			require.Equal(t, tc.wantStart, calendar.FormatDay(r.Start))
			require.Equal(t, tc.wantEnd, calendar.FormatDay(r.End))
		})
	}
}

func TestResolveRange_LastCalendarMonthExample(t *testing.T) {
	// Anchored at 2024-03-15 the prior month is all of February (leap year).
	r, err := ResolveRange(PresetLastMonth, nil, day("2024-03-01"), day("2024-03-15"))
	require.NoError(t, err)
	require.Equal(t, "2024-02-01", calendar.FormatDay(r.Start))
	require.Equal(t, "2024-02-29", calendar.FormatDay(r.End))
}

func TestResolveRange_ClampsToObservedSpan(t *testing.T) {
	// Dataset spans only 3 days; last-30 must not reach before minDay.
	r, err := ResolveRange(PresetLast30, nil, day("2024-03-08"), day("2024-03-10"))
	require.NoError(t, err)
	require.Equal(t, "2024-03-08", calendar.FormatDay(r.Start))
	require.Equal(t, "2024-03-10", calendar.FormatDay(r.End))
}

func TestResolveRange_Custom(t *testing.T) {
	minDay := day("2024-01-01")
	maxDay := day("2024-03-10")

	r, err := ResolveRange(PresetCustom, &DateRange{Start: day("2024-02-01"), End: day("2024-02-15")}, minDay, maxDay)
	require.NoError(t, err)
	require.Equal(t, "2024-02-01", calendar.FormatDay(r.Start))
	require.Equal(t, "2024-02-15", calendar.FormatDay(r.End))

	// Clamped into the observed span.
	r, err = ResolveRange(PresetCustom, &DateRange{Start: day("2023-12-01"), End: day("2024-06-01")}, minDay, maxDay)
	require.NoError(t, err)
	require.Equal(t, "2024-01-01", calendar.FormatDay(r.Start))
	require.Equal(t, "2024-03-10", calendar.FormatDay(r.End))

	// Start after end is rejected before any aggregation.
	_, err = ResolveRange(PresetCustom, &DateRange{Start: day("2024-03-01"), End: day("2024-02-01")}, minDay, maxDay)
	require.ErrorIs(t, err, ErrInvalidRange)

	// Custom without dates is rejected.
	_, err = ResolveRange(PresetCustom, nil, minDay, maxDay)
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestResolveRange_UnknownPreset(t *testing.T) {
	_, err := ResolveRange(Preset("fortnight"), nil, day("2024-01-01"), day("2024-03-10"))
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestFilterRange(t *testing.T) {
	orders := []Order{
		orderAt(t, "2024-03-04 08:00:00"),
		orderAt(t, "2024-03-05 23:59:59"),
		orderAt(t, "2024-03-06 00:00:00"),
	}

	r := DateRange{Start: day("2024-03-04"), End: day("2024-03-05")}
	got := FilterRange(orders, r)
	require.Len(t, got, 2)

	// Inclusive endpoints.
	r = DateRange{Start: day("2024-03-05"), End: day("2024-03-06")}
	require.Len(t, FilterRange(orders, r), 2)

	require.Empty(t, FilterRange(orders, DateRange{Start: day("2024-01-01"), End: day("2024-01-31")}))
}
