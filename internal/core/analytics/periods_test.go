package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var refDay = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC) // a Sunday

func comparisonDataset(t *testing.T, orders ...Order) *Dataset {
	t.Helper()
	return &Dataset{Columns: fullColumnMap(), Orders: orders}
}

func findComparison(t *testing.T, rows []Comparison, sku string) Comparison {
	t.Helper()
	for _, row := range rows {
		if row.SKU == sku {
			return row
		}
	}
	t.Fatalf("sku %s not in comparison output", sku)
	return Comparison{}
}

func TestComparePeriods_WindowBoundaries(t *testing.T) {
	orders := []Order{
		saleOrder(t, "2024-03-10 09:00:00", "O1", "SKU-A", "1", "10.00", "4.00"), // today
		saleOrder(t, "2024-03-09 09:00:00", "O2", "SKU-A", "2", "20.00", "8.00"), // yesterday
		saleOrder(t, "2024-03-03 09:00:00", "O3", "SKU-A", "3", "30.00", "9.00"), // same weekday last week
		saleOrder(t, "2024-03-04 09:00:00", "O4", "SKU-A", "4", "40.00", "9.00"), // inside trailing-7 (ref-6)
		saleOrder(t, "2024-02-26 09:00:00", "O5", "SKU-A", "5", "50.00", "9.00"), // inside trailing-14 (ref-13)
		saleOrder(t, "2024-02-10 09:00:00", "O6", "SKU-A", "6", "60.00", "9.00"), // inside trailing-30 (ref-29)
		saleOrder(t, "2024-02-09 09:00:00", "O7", "SKU-A", "7", "70.00", "9.00"), // outside every window
	}
	ds := comparisonDataset(t, orders...)

	rows, err := ComparePeriods(ds, refDay)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	require.True(t, row.Today.Quantity.Equal(decimal.NewFromInt(1)))
	require.True(t, row.Yesterday.Quantity.Equal(decimal.NewFromInt(2)))
	require.True(t, row.WeekAgoDay.Quantity.Equal(decimal.NewFromInt(3)))
	require.Equal(t, int64(1), row.Today.Orders)
	require.True(t, row.Today.Revenue.Equal(decimal.NewFromInt(10)))

	// trailing-7 covers ref-6..ref: O1 + O2 + O4.
	require.True(t, row.Trailing7.Equal(decimal.NewFromInt(7)), "got %s", row.Trailing7)
	// trailing-14 adds 03-03 and 02-26.
	require.True(t, row.Trailing14.Equal(decimal.NewFromInt(15)), "got %s", row.Trailing14)
	// trailing-30 adds 02-10 but not 02-09.
	require.True(t, row.Trailing30.Equal(decimal.NewFromInt(21)), "got %s", row.Trailing30)
}

func TestComparePeriods_OuterJoinZeroFill(t *testing.T) {
	orders := []Order{
		saleOrder(t, "2024-03-10 09:00:00", "O1", "TODAY-ONLY", "2", "20.00", "5.00"),
		saleOrder(t, "2024-02-15 09:00:00", "O2", "OLD-ONLY", "9", "90.00", "5.00"), // trailing-30 only
	}
	ds := comparisonDataset(t, orders...)

	rows, err := ComparePeriods(ds, refDay)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	old := findComparison(t, rows, "OLD-ONLY")
	require.True(t, old.Today.Quantity.IsZero())
	require.True(t, old.Yesterday.Quantity.IsZero())
	require.True(t, old.WeekAgoDay.Quantity.IsZero())
	require.True(t, old.Trailing7.IsZero())
	require.True(t, old.Trailing14.IsZero())
	require.True(t, old.Trailing30.Equal(decimal.NewFromInt(9)))
	require.Equal(t, int64(0), old.Today.Orders)

	today := findComparison(t, rows, "TODAY-ONLY")
	require.True(t, today.Trailing30.Equal(decimal.NewFromInt(2)))
}

func TestComparePeriods_TitleLastValueWins(t *testing.T) {
	o1 := saleOrder(t, "2024-03-09 09:00:00", "O1", "SKU-A", "1", "10.00", "4.00")
	o1.Title = "Old Name"
	o2 := saleOrder(t, "2024-03-10 09:00:00", "O2", "SKU-A", "1", "10.00", "4.00")
	o2.Title = "New Name"
	ds := comparisonDataset(t, o1, o2)

	rows, err := ComparePeriods(ds, refDay)
	require.NoError(t, err)
	require.Equal(t, "New Name", rows[0].Title)
}

func TestComparePeriods_MissingField(t *testing.T) {
	cols := fullColumnMap()
	cols.SKU = ""
	ds := &Dataset{Columns: cols}

	_, err := ComparePeriods(ds, refDay)
	require.ErrorIs(t, err, ErrMissingField)
}

func TestComparePeriods_PurchaseAmountNotRequired(t *testing.T) {
	cols := fullColumnMap()
	cols.PurchaseAmount = ""
	ds := &Dataset{Columns: cols, Orders: []Order{
		saleOrder(t, "2024-03-10 09:00:00", "O1", "SKU-A", "1", "10.00", "0"),
	}}

	rows, err := ComparePeriods(ds, refDay)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestHeadlineMetrics(t *testing.T) {
	orders := []Order{
		saleOrder(t, "2024-03-10 09:00:00", "O1", "SKU-A", "2", "27.00", "5.00"),
		saleOrder(t, "2024-03-10 10:00:00", "O2", "SKU-B", "1", "13.00", "5.00"),
		saleOrder(t, "2024-03-09 10:00:00", "O3", "SKU-A", "2", "20.00", "5.00"),
		saleOrder(t, "2024-03-03 10:00:00", "O4", "SKU-A", "5", "50.00", "5.00"),
	}
	ds := comparisonDataset(t, orders...)

	h, err := HeadlineMetrics(ds, refDay)
	require.NoError(t, err)

	require.True(t, h.Today.Quantity.Equal(decimal.NewFromInt(3)))
	require.True(t, h.Today.Revenue.Equal(decimal.NewFromInt(40)))
	require.Equal(t, int64(2), h.Today.Orders)
	require.True(t, h.Today.AvgUnitPrice.Equal(decimal.RequireFromString("13.33")))

	require.True(t, h.WeekAgoDay.Quantity.Equal(decimal.NewFromInt(5)))

	require.NotNil(t, h.QuantityChangePct)
	require.True(t, h.QuantityChangePct.Equal(decimal.NewFromInt(50)), "got %s", h.QuantityChangePct)
	require.NotNil(t, h.RevenueChangePct)
	require.True(t, h.RevenueChangePct.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, h.OrdersChangePct)
	require.True(t, h.OrdersChangePct.Equal(decimal.NewFromInt(100)))
}

func TestHeadlineMetrics_NilChangeWhenYesterdayZero(t *testing.T) {
	orders := []Order{
		saleOrder(t, "2024-03-10 09:00:00", "O1", "SKU-A", "2", "20.00", "5.00"),
	}
	ds := comparisonDataset(t, orders...)

	h, err := HeadlineMetrics(ds, refDay)
	require.NoError(t, err)
	require.Nil(t, h.QuantityChangePct)
	require.Nil(t, h.RevenueChangePct)
	require.Nil(t, h.OrdersChangePct)
	require.Nil(t, h.AvgPriceChangePct)
}

func TestComparePeriods_SortedByTodayQuantity(t *testing.T) {
	orders := []Order{
		saleOrder(t, "2024-03-10 09:00:00", "O1", "SMALL", "1", "10.00", "5.00"),
		saleOrder(t, "2024-03-10 10:00:00", "O2", "BIG", "9", "90.00", "5.00"),
	}
	ds := comparisonDataset(t, orders...)

	rows, err := ComparePeriods(ds, refDay)
	require.NoError(t, err)
	require.Equal(t, "BIG", rows[0].SKU)
}
