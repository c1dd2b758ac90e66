package projection

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/sunnysdady/orderpulse/internal/core/analytics"
	"github.com/sunnysdady/orderpulse/internal/core/columns"
	"github.com/sunnysdady/orderpulse/internal/core/table"
	"github.com/sunnysdady/orderpulse/internal/dataset"
)

func newTestRouter(t *testing.T, store *dataset.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewService(store, analytics.DefaultAnomalyThresholdPct).RegisterRoutes(r)
	return r
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandleHourly(t *testing.T) {
	r := newTestRouter(t, loadedStore(t, testRows))

	rec := get(t, r, "/v1/aggregates/hourly?preset=last-7")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HourlyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "last-7", resp.Range.Preset)
	require.Len(t, resp.Values, 24)
}

func TestHandleWeekday_LabelsMarshalled(t *testing.T) {
	r := newTestRouter(t, loadedStore(t, testRows))

	rec := get(t, r, "/v1/aggregates/weekday")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"weekday":"Mon"`)
	require.Contains(t, rec.Body.String(), `"weekday":"Sun"`)
}

func TestHandleRankings_ErrorMapping(t *testing.T) {
	r := newTestRouter(t, loadedStore(t, testRows))

	rec := get(t, r, "/v1/rankings?sort=by-profit")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_query")
}

func TestHandleRankings_MissingField(t *testing.T) {
	f, err := table.New([]string{"sale_date", "sku", "quantity", "sales", "order_id"})
	require.NoError(t, err)
	require.NoError(t, f.AppendRow([]string{"2024-03-10 09:00:00", "SKU-A", "1", "10.00", "O1"}))
	ds, err := analytics.ExtractDimensions(f, "sale_date", columns.Defaults().Resolve(f.Columns()))
	require.NoError(t, err)

	store := dataset.NewStore()
	store.Replace(&dataset.Snapshot{ID: "nocost", TimeColumn: "sale_date", Frame: f, Data: ds})
	r := newTestRouter(t, store)

	rec := get(t, r, "/v1/rankings")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "missing_field")
	require.Contains(t, rec.Body.String(), "purchase_amount")
}

func TestHandlers_NoDataset(t *testing.T) {
	r := newTestRouter(t, dataset.NewStore())

	for _, path := range []string{
		"/v1/aggregates/hourly",
		"/v1/aggregates/weekday",
		"/v1/aggregates/heatmap",
		"/v1/rankings",
		"/v1/comparisons",
		"/v1/trend",
	} {
		rec := get(t, r, path)
		require.Equal(t, http.StatusConflict, rec.Code, path)
		require.Contains(t, rec.Body.String(), "no_dataset", path)
	}
}

func TestHandleComparisons(t *testing.T) {
	r := newTestRouter(t, loadedStore(t, testRows))

	rec := get(t, r, "/v1/comparisons?date=2024-03-10")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ComparisonResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "2024-03-10", resp.Date)
	require.Equal(t, "SKU-A", resp.Values[0].SKU)

	rec = get(t, r, "/v1/comparisons?date=today")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTrend(t *testing.T) {
	r := newTestRouter(t, loadedStore(t, testRows))

	rec := get(t, r, "/v1/trend")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"signal":"stable"`)
}
