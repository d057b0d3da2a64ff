package service

import (
	"slices"

	"github.com/okian/standings/internal/adapters/repository"
	"github.com/okian/standings/internal/domain/metric"
	"github.com/okian/standings/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets where the tournament snapshot is read from.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRegistry replaces the built-in metric registry.
func WithRegistry(r *metric.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithTeamMetrics sets the team precedence and informational metrics.
func WithTeamMetrics(precedence, extra []string) Option {
	return func(s *Service) {
		if len(precedence) > 0 {
			s.teamPrecedence = slices.Clone(precedence)
			s.teamExtra = slices.Clone(extra)
		}
	}
}

// WithRankSpeakersBy selects "average" or "total" speaker ranking.
func WithRankSpeakersBy(mode string) Option {
	return func(s *Service) {
		if mode != "" {
			s.rankSpeakersBy = mode
		}
	}
}

// WithMissedDebates sets how many speeches a speaker may miss and still be
// ranked. A negative value ranks every speaker.
func WithMissedDebates(n int) Option {
	return func(s *Service) {
		s.missedDebates = n
	}
}

// WithPrecision sets the decimal places metric values are compared at.
func WithPrecision(decimals int) Option {
	return func(s *Service) {
		s.precision = decimals
	}
}

// WithHighlightsLimit caps each highlights list.
func WithHighlightsLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.highlightsLimit = n
		}
	}
}

// WithPublicTabReleased marks every result as in.
func WithPublicTabReleased(released bool) Option {
	return func(s *Service) {
		s.publicReleased = released
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
