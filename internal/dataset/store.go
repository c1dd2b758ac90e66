package dataset

import (
	"errors"
	"sync"
	"time"

	"github.com/sunnysdady/orderpulse/internal/core/analytics"
	"github.com/sunnysdady/orderpulse/internal/core/table"
)

// ErrNoDataset marks queries issued before any upload succeeded.
var ErrNoDataset = errors.New("no dataset loaded")

// Snapshot is one fully-derived dataset: the raw frame as uploaded plus the
// dimensioned orders. Snapshots are immutable; lifecycle transitions
// (upload, timestamp-column reselection, reset) replace the whole snapshot.
type Snapshot struct {
	ID         string
	FileName   string
	TimeColumn string
	UploadedAt time.Time

	Frame *table.Frame
	Data  *analytics.Dataset
}

// Store holds the current session's snapshot. There is exactly one logical
// writer (the current session), but HTTP handlers read concurrently, so
// access goes through a read-write lock.
type Store struct {
	mu  sync.RWMutex
	cur *Snapshot
}

func NewStore() *Store {
	return &Store{}
}

// Replace installs a new snapshot wholesale. A failed upload never reaches
// Replace, so the previously loaded snapshot stays active on error.
func (s *Store) Replace(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = snap
}

// Current returns the active snapshot, or ErrNoDataset.
func (s *Store) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return nil, ErrNoDataset
	}
	return s.cur, nil
}

// Clear drops the active snapshot. Reports whether one was loaded.
func (s *Store) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.cur != nil
	s.cur = nil
	return had
}
