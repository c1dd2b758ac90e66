package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/sunnysdady/orderpulse/internal/core/calendar"
	"github.com/sunnysdady/orderpulse/internal/projection"
)

// utf8BOM prefixes every export so spreadsheet tools detect UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// encodeCSV renders a BOM-prefixed CSV document.
func encodeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rangeFileName stamps the resolved range into the download name,
// e.g. "rankings_20240304-20240310.csv".
func rangeFileName(prefix string, r projection.RangeInfo) string {
	return fmt.Sprintf("%s_%s-%s.csv", prefix, compactDay(r.Start), compactDay(r.End))
}

// dayFileName stamps a single anchor date, e.g. "comparisons_20240310.csv".
func dayFileName(prefix, day string) string {
	return fmt.Sprintf("%s_%s.csv", prefix, compactDay(day))
}

func compactDay(day string) string {
	return strings.ReplaceAll(day, "-", "")
}

func hourlyDocument(resp *projection.HourlyResponse) ([]byte, error) {
	rows := make([][]string, 0, len(resp.Values))
	for _, v := range resp.Values {
		rows = append(rows, []string{strconv.Itoa(v.Hour), strconv.FormatInt(v.Orders, 10)})
	}
	return encodeCSV([]string{"hour", "orders"}, rows)
}

func weekdayDocument(resp *projection.WeekdayResponse) ([]byte, error) {
	rows := make([][]string, 0, len(resp.Values))
	for _, v := range resp.Values {
		rows = append(rows, []string{v.Weekday.String(), strconv.FormatInt(v.Orders, 10)})
	}
	return encodeCSV([]string{"weekday", "orders"}, rows)
}

func heatmapDocument(resp *projection.HeatmapResponse) ([]byte, error) {
	header := make([]string, 0, 25)
	header = append(header, "weekday")
	for _, h := range resp.Heatmap.Hours {
		header = append(header, strconv.Itoa(h))
	}

	rows := make([][]string, 0, len(resp.Heatmap.Weekdays))
	for i, w := range resp.Heatmap.Weekdays {
		row := make([]string, 0, 25)
		row = append(row, w.String())
		for _, c := range resp.Heatmap.Cells[i] {
			row = append(row, strconv.FormatInt(c, 10))
		}
		rows = append(rows, row)
	}
	return encodeCSV(header, rows)
}

func rankingDocument(resp *projection.RankingResponse) ([]byte, error) {
	header := []string{"rank", "sku", "title", "quantity", "orders", "purchase_cost", "sale_revenue", "net_revenue", "avg_unit_price"}
	rows := make([][]string, 0, len(resp.Values))
	for _, v := range resp.Values {
		rows = append(rows, []string{
			strconv.Itoa(v.Rank),
			v.SKU,
			v.Title,
			v.Quantity.String(),
			strconv.FormatInt(v.Orders, 10),
			v.PurchaseCost.String(),
			v.SaleRevenue.String(),
			v.NetRevenue.String(),
			v.AvgUnitPrice.String(),
		})
	}
	return encodeCSV(header, rows)
}

func comparisonDocument(resp *projection.ComparisonResponse) ([]byte, error) {
	header := []string{
		"sku", "title",
		"today_quantity", "today_orders", "today_revenue",
		"yesterday_quantity", "yesterday_orders", "yesterday_revenue",
		"week_ago_quantity", "week_ago_orders", "week_ago_revenue",
		"trailing_7", "trailing_14", "trailing_30",
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, v := range resp.Values {
		rows = append(rows, []string{
			v.SKU,
			v.Title,
			v.Today.Quantity.String(),
			strconv.FormatInt(v.Today.Orders, 10),
			v.Today.Revenue.String(),
			v.Yesterday.Quantity.String(),
			strconv.FormatInt(v.Yesterday.Orders, 10),
			v.Yesterday.Revenue.String(),
			v.WeekAgoDay.Quantity.String(),
			strconv.FormatInt(v.WeekAgoDay.Orders, 10),
			v.WeekAgoDay.Revenue.String(),
			v.Trailing7.String(),
			v.Trailing14.String(),
			v.Trailing30.String(),
		})
	}
	return encodeCSV(header, rows)
}

func trendDocument(resp *projection.TrendResponse) ([]byte, error) {
	rows := make([][]string, 0, len(resp.Totals))
	for _, v := range resp.Totals {
		rows = append(rows, []string{calendar.FormatDay(v.Day), v.Quantity.String()})
	}
	return encodeCSV([]string{"day", "quantity"}, rows)
}
