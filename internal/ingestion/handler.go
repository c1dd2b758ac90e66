package ingestion

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sunnysdady/orderpulse/internal/core/analytics"
	"github.com/sunnysdady/orderpulse/internal/core/calendar"
	httperr "github.com/sunnysdady/orderpulse/internal/core/errors"
	"github.com/sunnysdady/orderpulse/internal/dataset"
)

// RegisterRoutes registers the dataset lifecycle routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/datasets", s.UploadHandler)
	r.GET("/v1/datasets/current", s.CurrentHandler)
	r.PUT("/v1/datasets/current/time-column", s.ReselectHandler)
	r.DELETE("/v1/datasets/current", s.ResetHandler)
}

// snapshotResponse describes the installed snapshot, including a short raw
// preview so the caller can verify the column choice.
type snapshotResponse struct {
	ID         string     `json:"id"`
	FileName   string     `json:"file_name"`
	TimeColumn string     `json:"time_column"`
	UploadedAt time.Time  `json:"uploaded_at"`
	Rows       int        `json:"rows"`
	Dropped    int        `json:"dropped"`
	MinDay     string     `json:"min_day"`
	MaxDay     string     `json:"max_day"`
	Columns    []string   `json:"columns"`
	Preview    [][]string `json:"preview"`
}

func (s *Service) snapshotResponse(snap *dataset.Snapshot) snapshotResponse {
	return snapshotResponse{
		ID:         snap.ID,
		FileName:   snap.FileName,
		TimeColumn: snap.TimeColumn,
		UploadedAt: snap.UploadedAt,
		Rows:       len(snap.Data.Orders),
		Dropped:    snap.Data.Dropped,
		MinDay:     calendar.FormatDay(snap.Data.MinDay),
		MaxDay:     calendar.FormatDay(snap.Data.MaxDay),
		Columns:    snap.Frame.Columns(),
		Preview:    s.Preview(snap),
	}
}

// UploadHandler handles POST /v1/datasets: a multipart form with a "file"
// part and a "time_column" field. A failed upload leaves the previous
// snapshot active.
func (s *Service) UploadHandler(c *gin.Context) {
	// Reject oversized uploads before buffering the multipart body.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)

	timeColumn := c.PostForm("time_column")
	if timeColumn == "" {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpUploadError,
			Message:   "time_column form field is required",
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpUploadError,
			Message:   "file form part is required",
			Details:   err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpUploadError,
			Message:   "failed to open uploaded file",
			Details:   err.Error(),
		})
		return
	}
	defer file.Close()

	snap, err := s.LoadCSV(c.Request.Context(), file, fileHeader.Filename, timeColumn)
	if err != nil {
		writeIngestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, s.snapshotResponse(snap))
}

// CurrentHandler handles GET /v1/datasets/current.
func (s *Service) CurrentHandler(c *gin.Context) {
	snap, err := s.store.Current()
	if err != nil {
		c.JSON(http.StatusConflict, httperr.ErrorResponse{
			ErrorType: httperr.HttpNoDataset,
			Message:   "no dataset loaded",
		})
		return
	}
	c.JSON(http.StatusOK, s.snapshotResponse(snap))
}

// ReselectHandler handles PUT /v1/datasets/current/time-column.
func (s *Service) ReselectHandler(c *gin.Context) {
	var body struct {
		TimeColumn string `json:"time_column" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQuery,
			Message:   "time_column is required",
			Details:   err.Error(),
		})
		return
	}

	snap, err := s.Reselect(body.TimeColumn)
	if err != nil {
		if errors.Is(err, dataset.ErrNoDataset) {
			c.JSON(http.StatusConflict, httperr.ErrorResponse{
				ErrorType: httperr.HttpNoDataset,
				Message:   "no dataset loaded",
			})
			return
		}
		writeIngestError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.snapshotResponse(snap))
}

// ResetHandler handles DELETE /v1/datasets/current.
func (s *Service) ResetHandler(c *gin.Context) {
	if !s.store.Clear() {
		c.JSON(http.StatusConflict, httperr.ErrorResponse{
			ErrorType: httperr.HttpNoDataset,
			Message:   "no dataset loaded",
		})
		return
	}
	c.Status(http.StatusNoContent)
}

func writeIngestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analytics.ErrColumnNotFound),
		errors.Is(err, ErrEmptyUpload),
		errors.Is(err, ErrNoValidRows):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpUploadError,
			Message:   "upload rejected",
			Details:   err.Error(),
		})
	default:
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpUploadError,
			Message:   "failed to decode uploaded file",
			Details:   err.Error(),
		})
	}
}
