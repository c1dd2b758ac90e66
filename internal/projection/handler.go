package projection

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sunnysdady/orderpulse/internal/core/analytics"
	httperr "github.com/sunnysdady/orderpulse/internal/core/errors"
	"github.com/sunnysdady/orderpulse/internal/dataset"
)

// RegisterRoutes registers all aggregate query routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/aggregates/hourly", s.HandleHourly)
	r.GET("/v1/aggregates/weekday", s.HandleWeekday)
	r.GET("/v1/aggregates/heatmap", s.HandleHeatmap)
	r.GET("/v1/rankings", s.HandleRankings)
	r.GET("/v1/comparisons", s.HandleComparisons)
	r.GET("/v1/trend", s.HandleTrend)
}

func bindRangeQuery(c *gin.Context) (RangeQuery, bool) {
	var q RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQuery,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return q, false
	}
	return q, true
}

// HandleHourly handles GET /v1/aggregates/hourly.
func (s *Service) HandleHourly(c *gin.Context) {
	q, ok := bindRangeQuery(c)
	if !ok {
		return
	}
	resp, err := s.Hourly(q)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleWeekday handles GET /v1/aggregates/weekday.
func (s *Service) HandleWeekday(c *gin.Context) {
	q, ok := bindRangeQuery(c)
	if !ok {
		return
	}
	resp, err := s.Weekday(q)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleHeatmap handles GET /v1/aggregates/heatmap.
func (s *Service) HandleHeatmap(c *gin.Context) {
	q, ok := bindRangeQuery(c)
	if !ok {
		return
	}
	resp, err := s.Heatmap(q)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleRankings handles GET /v1/rankings?sort=by-quantity|by-revenue.
func (s *Service) HandleRankings(c *gin.Context) {
	q, ok := bindRangeQuery(c)
	if !ok {
		return
	}
	resp, err := s.Rankings(q, analytics.SortKey(c.Query("sort")))
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleComparisons handles GET /v1/comparisons?date=YYYY-MM-DD.
func (s *Service) HandleComparisons(c *gin.Context) {
	resp, err := s.Comparisons(c.Query("date"))
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleTrend handles GET /v1/trend.
func (s *Service) HandleTrend(c *gin.Context) {
	q, ok := bindRangeQuery(c)
	if !ok {
		return
	}
	resp, err := s.Trend(q)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func writeQueryError(c *gin.Context, err error) {
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
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, analytics.ErrUnknownSortKey):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQuery,
			Message:   "Invalid aggregate query",
			Details:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to compute aggregate",
			Details:   err.Error(),
		})
	}
}
