// Package service builds the tournament's standings tables from the current
// snapshot and provides the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/okian/standings/internal/adapters/repository"
	"github.com/okian/standings/internal/domain/metric"
	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/standings"
	"github.com/okian/standings/pkg/logger"
)

// Speaker ranking modes.
const (
	RankByAverage = "average"
	RankByTotal   = "total"
)

// Service generates standings on demand. Generation holds no shared mutable
// state, so any number of requests may run concurrently.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	registry *metric.Registry

	teamPrecedence  []string
	teamExtra       []string
	rankSpeakersBy  string
	missedDebates   int
	precision       int
	highlightsLimit int
	publicReleased  bool

	started bool
	logger  logger.Logger

	generated atomic.Int64
	failed    atomic.Int64
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:           repository.NewMemoryStore(),
		registry:        metric.NewRegistry(),
		teamPrecedence:  []string{"wins", "speaks_sum"},
		teamExtra:       []string{"margin_sum", "draw_strength"},
		rankSpeakersBy:  RankByAverage,
		missedDebates:   1,
		precision:       6,
		highlightsLimit: 10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start checks that every configured table can be generated. Metric names
// and precision are resolved here so that mistakes surface at boot instead
// of on the first request.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	if _, err := s.teamGenerator(false); err != nil {
		return fmt.Errorf("team standings: %w", err)
	}
	if _, err := s.speakerGenerator(0); err != nil {
		return fmt.Errorf("speaker standings: %w", err)
	}
	if _, err := s.replyGenerator(); err != nil {
		return fmt.Errorf("reply standings: %w", err)
	}

	s.started = true
	s.logger.Info(ctx, "standings service started",
		logger.Strings("team_precedence", s.teamPrecedence),
		logger.Strings("team_extra", s.teamExtra),
		logger.String("rank_speakers_by", s.rankSpeakersBy),
		logger.Int("missed_debates", s.missedDebates),
		logger.Int("precision", s.precision),
		logger.Bool("public_tab_released", s.publicReleased),
	)
	return nil
}

// Stop marks the service as stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "standings service stopped")
}

// snapshot loads the tournament for one request.
func (s *Service) snapshot(ctx context.Context) (*model.Tournament, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}
	return s.store.Snapshot(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	stats := map[string]any{
		"started":           started,
		"tablesGenerated":   s.generated.Load(),
		"generationsFailed": s.failed.Load(),
		"rankSpeakersBy":    s.rankSpeakersBy,
		"teamPrecedence":    s.teamPrecedence,
	}
	if !started {
		return stats
	}
	t, err := s.store.Snapshot(context.Background())
	if err != nil {
		stats["snapshotError"] = err.Error()
		return stats
	}
	stats["tournament"] = t.Name
	stats["currentRound"] = t.CurrentRound
	stats["rounds"] = t.Rounds.Len()
	stats["teams"] = len(t.Teams)
	stats["speakers"] = len(t.Speakers)
	return stats
}

// errorReason classifies a generation error for metrics.
func errorReason(err error) string {
	switch {
	case errors.Is(err, standings.ErrMissingData):
		return "missing_data"
	case errors.Is(err, standings.ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrRoundNotFound):
		return "round_not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
