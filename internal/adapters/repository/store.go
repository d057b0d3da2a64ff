// Package repository loads and serves the tournament snapshot the standings
// engine works from.
package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/pkg/metrics"
)

// Store provides read access to the current tournament state.
type Store interface {
	// Snapshot returns the whole tournament in one bulk read. The returned
	// value must be treated as read-only.
	Snapshot(ctx context.Context) (*model.Tournament, error)
}

// MemoryStore keeps one tournament snapshot in memory. Replacing the snapshot
// is atomic, so readers always see either the old or the new tournament.
type MemoryStore struct {
	current atomic.Pointer[model.Tournament]
}

// NewMemoryStore creates a store holding an empty tournament unless an
// option provides one.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{}
	s.current.Store(&model.Tournament{})
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot implements Store.
func (s *MemoryStore) Snapshot(ctx context.Context) (*model.Tournament, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		metrics.RecordErrorByComponent("repository", "canceled")
		return nil, err
	}
	t := s.current.Load()
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	return t, nil
}

// Replace publishes a new tournament snapshot.
func (s *MemoryStore) Replace(t *model.Tournament) error {
	if t == nil {
		return fmt.Errorf("%w: nil tournament", ErrInvalidSnapshot)
	}
	s.current.Store(t)
	return nil
}

// LoadFile decodes a YAML snapshot from path and publishes it. On error the
// previous snapshot stays in place.
func (s *MemoryStore) LoadFile(ctx context.Context, path string) error {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return err
	}
	t, err := ReadFile(path)
	if err != nil {
		metrics.RecordSnapshotLoadError()
		return err
	}
	if err := s.Replace(t); err != nil {
		metrics.RecordSnapshotLoadError()
		return err
	}
	metrics.RecordSnapshotLoad(
		float64(time.Since(start).Microseconds())/1000,
		time.Now().Unix(),
		len(t.Teams), len(t.Speakers), t.Rounds.Len(),
	)
	return nil
}
