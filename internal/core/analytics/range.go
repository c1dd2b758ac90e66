package analytics

import (
	"errors"
	"fmt"
	"time"

	"github.com/sunnysdady/orderpulse/internal/core/calendar"
)

// Preset is a named date-range token anchored at the dataset's latest date.
type Preset string

const (
	PresetToday     Preset = "today"
	PresetYesterday Preset = "yesterday"
	PresetLast7     Preset = "last-7"
	PresetLast14    Preset = "last-14"
	PresetLast30    Preset = "last-30"
	PresetLastMonth Preset = "last-calendar-month"
	PresetAll       Preset = "all"
	PresetCustom    Preset = "custom"
)

// ErrInvalidRange marks an unusable range request: unknown preset, custom
// start after end, or custom without both dates.
var ErrInvalidRange = errors.New("invalid date range")

// DateRange is an inclusive day interval.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ResolveRange maps a preset (or a custom start/end pair) to a concrete
// inclusive interval anchored at maxDay. Every preset except
// last-calendar-month is clamped into [minDay, maxDay]; the previous
// calendar month may legitimately fall outside the observed data, in which
// case downstream aggregation yields a dense all-zero result.
func ResolveRange(preset Preset, custom *DateRange, minDay, maxDay time.Time) (DateRange, error) {
	minDay = calendar.DayOf(minDay)
	maxDay = calendar.DayOf(maxDay)

	switch preset {
	case PresetToday:
		return clampRange(maxDay, maxDay, minDay, maxDay), nil
	case PresetYesterday:
		day := calendar.AddDays(maxDay, -1)
		return clampRange(day, day, minDay, maxDay), nil
	case PresetLast7:
		return clampRange(calendar.AddDays(maxDay, -6), maxDay, minDay, maxDay), nil
	case PresetLast14:
		return clampRange(calendar.AddDays(maxDay, -13), maxDay, minDay, maxDay), nil
	case PresetLast30:
		return clampRange(calendar.AddDays(maxDay, -29), maxDay, minDay, maxDay), nil
	case PresetLastMonth:
		first, last := calendar.PreviousMonth(maxDay)
		return DateRange{Start: first, End: last}, nil
	case PresetAll:
		return DateRange{Start: minDay, End: maxDay}, nil
	case PresetCustom:
		if custom == nil {
			return DateRange{}, fmt.Errorf("%w: custom preset requires start and end", ErrInvalidRange)
		}
		start := calendar.DayOf(custom.Start)
		end := calendar.DayOf(custom.End)
		if start.After(end) {
			return DateRange{}, fmt.Errorf("%w: start %s is after end %s",
				ErrInvalidRange, calendar.FormatDay(start), calendar.FormatDay(end))
		}
		return clampRange(start, end, minDay, maxDay), nil
	default:
		return DateRange{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidRange, preset)
	}
}

func clampRange(start, end, minDay, maxDay time.Time) DateRange {
	return DateRange{
		Start: clampDay(start, minDay, maxDay),
		End:   clampDay(end, minDay, maxDay),
	}
}

func clampDay(day, minDay, maxDay time.Time) time.Time {
	if day.Before(minDay) {
		return minDay
	}
	if day.After(maxDay) {
		return maxDay
	}
	return day
}

// FilterRange returns the orders whose day falls inside r, inclusive of both
// endpoints. The input slice is never modified.
func FilterRange(orders []Order, r DateRange) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if inWindow(o.Day, r.Start, r.End) {
			out = append(out, o)
		}
	}
	return out
}
