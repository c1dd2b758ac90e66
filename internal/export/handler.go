package export

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sunnysdady/orderpulse/internal/core/analytics"
	httperr "github.com/sunnysdady/orderpulse/internal/core/errors"
	"github.com/sunnysdady/orderpulse/internal/dataset"
	"github.com/sunnysdady/orderpulse/internal/projection"
)

const contentTypeCSV = "text/csv; charset=utf-8"

// Service serves the aggregates as downloadable CSV documents. It reuses the
// projection service for all computation and only owns serialization.
type Service struct {
	proj *projection.Service
}

// NewService creates a new export service on top of the projection layer.
func NewService(proj *projection.Service) *Service {
	return &Service{proj: proj}
}

// RegisterRoutes registers the export route on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/export/:report", s.HandleExport)
}

// HandleExport handles GET /v1/export/:report. The report name selects the
// aggregate; range and sort parameters match the JSON endpoints.
func (s *Service) HandleExport(c *gin.Context) {
	report := c.Param("report")

	var q projection.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeExportError(c, fmt.Errorf("%w: %s", projection.ErrInvalidQuery, err))
		return
	}

	var (
		name string
		body []byte
		err  error
	)
	switch report {
	case "hourly":
		name, body, err = s.hourly(q)
	case "weekday":
		name, body, err = s.weekday(q)
	case "heatmap":
		name, body, err = s.heatmap(q)
	case "rankings":
		name, body, err = s.rankings(q, analytics.SortKey(c.Query("sort")))
	case "comparisons":
		name, body, err = s.comparisons(c.Query("date"))
	case "trend":
		name, body, err = s.trend(q)
	default:
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpUnknownExport,
			Message:   fmt.Sprintf("unknown export %q", report),
		})
		return
	}
	if err != nil {
		writeExportError(c, err)
		return
	}

	slog.Info("export served", "report", report, "file_name", name, "bytes", len(body))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentTypeCSV, body)
}

func (s *Service) hourly(q projection.RangeQuery) (string, []byte, error) {
	resp, err := s.proj.Hourly(q)
	if err != nil {
		return "", nil, err
	}
	body, err := hourlyDocument(resp)
	return rangeFileName("hourly", resp.Range), body, err
}

func (s *Service) weekday(q projection.RangeQuery) (string, []byte, error) {
	resp, err := s.proj.Weekday(q)
	if err != nil {
		return "", nil, err
	}
	body, err := weekdayDocument(resp)
	return rangeFileName("weekday", resp.Range), body, err
}

func (s *Service) heatmap(q projection.RangeQuery) (string, []byte, error) {
	resp, err := s.proj.Heatmap(q)
	if err != nil {
		return "", nil, err
	}
	body, err := heatmapDocument(resp)
	return rangeFileName("heatmap", resp.Range), body, err
}

func (s *Service) rankings(q projection.RangeQuery, sortKey analytics.SortKey) (string, []byte, error) {
	resp, err := s.proj.Rankings(q, sortKey)
	if err != nil {
		return "", nil, err
	}
	body, err := rankingDocument(resp)
	return rangeFileName("rankings", resp.Range), body, err
}

func (s *Service) comparisons(dateStr string) (string, []byte, error) {
	resp, err := s.proj.Comparisons(dateStr)
	if err != nil {
		return "", nil, err
	}
	body, err := comparisonDocument(resp)
	return dayFileName("comparisons", resp.Date), body, err
}

func (s *Service) trend(q projection.RangeQuery) (string, []byte, error) {
	resp, err := s.proj.Trend(q)
	if err != nil {
		return "", nil, err
	}
	body, err := trendDocument(resp)
	return rangeFileName("trend", resp.Range), body, err
}

func writeExportError(c *gin.Context, err error) {
	var missing *analytics.MissingFieldError

	switch {
	case errors.Is(err, dataset.ErrNoDataset):
		c.JSON(http.StatusConflict, httperr.ErrorResponse{
			ErrorType: httperr.HttpNoDataset,
			Message:   "no dataset loaded",
		})
	case errors.As(err, &missing):
		c.JSON(http.StatusUnprocessableEntity, httperr.ErrorResponse{
			ErrorType: httperr.HttpMissingField,
			Message:   "required column missing from the uploaded dataset",
			Details:   gin.H{"field": missing.Field},
		})
	case errors.Is(err, projection.ErrInvalidQuery), errors.Is(err, analytics.ErrUnknownSortKey):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQuery,
			Message:   "Invalid export query",
			Details:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to build export",
			Details:   err.Error(),
		})
	}
}
