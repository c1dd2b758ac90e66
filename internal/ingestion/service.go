package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sunnysdady/orderpulse/internal/core/analytics"
	"github.com/sunnysdady/orderpulse/internal/core/columns"
	"github.com/sunnysdady/orderpulse/internal/core/table"
	"github.com/sunnysdady/orderpulse/internal/dataset"
)

const (
	normalizeBatchSize  = 2000
	maxNormalizeWorkers = 4
)

var (
	// ErrEmptyUpload marks a file with a header but no data rows.
	ErrEmptyUpload = errors.New("upload has no data rows")

	// ErrNoValidRows marks an upload where every timestamp cell failed to
	// parse — nothing would be left to aggregate.
	ErrNoValidRows = errors.New("no rows with a parseable timestamp")
)

// Service decodes uploaded order exports into the session snapshot.
// The analytics core never sees file formats; this is the only place that does.
type Service struct {
	store          *dataset.Store
	aliases        columns.Aliases
	previewRows    int
	maxUploadBytes int64
}

func NewService(store *dataset.Store, aliases columns.Aliases, previewRows, maxUploadMB int) *Service {
	return &Service{
		store:          store,
		aliases:        aliases,
		previewRows:    previewRows,
		maxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
	}
}

// LoadCSV decodes a delimited upload, derives calendar dimensions from the
// chosen timestamp column and installs the result as the current snapshot.
// Any error leaves the previously loaded snapshot untouched.
func (s *Service) LoadCSV(ctx context.Context, r io.Reader, fileName, timeColumn string) (*dataset.Snapshot, error) {
	frame, err := decodeCSV(ctx, r)
	if err != nil {
		return nil, err
	}
	return s.install(frame, fileName, timeColumn)
}

// Reselect re-derives dimensions from the retained raw frame using a
// different timestamp column. State replacement, not mutation: a fresh
// snapshot is built and installed.
func (s *Service) Reselect(timeColumn string) (*dataset.Snapshot, error) {
	cur, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	return s.install(cur.Frame, cur.FileName, timeColumn)
}

func (s *Service) install(frame *table.Frame, fileName, timeColumn string) (*dataset.Snapshot, error) {
	cols := s.aliases.Resolve(frame.Columns())

	ds, err := analytics.ExtractDimensions(frame, timeColumn, cols)
	if err != nil {
		return nil, err
	}
	if ds.Empty() {
		return nil, fmt.Errorf("%w: column %q", ErrNoValidRows, timeColumn)
	}

	snap := &dataset.Snapshot{
		ID:         uuid.NewString(),
		FileName:   fileName,
		TimeColumn: timeColumn,
		UploadedAt: time.Now().UTC(),
		Frame:      frame,
		Data:       ds,
	}
	s.store.Replace(snap)

	slog.Info("Dataset snapshot installed",
		"snapshot_id", snap.ID,
		"file_name", fileName,
		"time_column", timeColumn,
		"rows", len(ds.Orders),
		"dropped", ds.Dropped,
		"min_day", ds.MinDay.Format("2006-01-02"),
		"max_day", ds.MaxDay.Format("2006-01-02"),
	)
	return snap, nil
}

// Preview returns up to the configured number of leading raw rows.
func (s *Service) Preview(snap *dataset.Snapshot) [][]string {
	return snap.Frame.Head(s.previewRows)
}

// decodeCSV reads a delimited upload into a Frame. Cells are trimmed in
// parallel batches; large marketplace exports run to hundreds of thousands
// of rows.
func decodeCSV(ctx context.Context, r io.Reader) (*table.Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	// Spreadsheet tools prepend a UTF-8 byte-order mark.
	headers[0] = strings.TrimPrefix(headers[0], "\ufeff")

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv rows: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyUpload
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxNormalizeWorkers)
	for start := 0; start < len(records); start += normalizeBatchSize {
		end := start + normalizeBatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, row := range batch {
				for i := range row {
					row[i] = strings.TrimSpace(row[i])
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	frame, err := table.New(headers)
	if err != nil {
		return nil, fmt.Errorf("invalid csv header: %w", err)
	}
	for _, row := range records {
		if err := frame.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return frame, nil
}
