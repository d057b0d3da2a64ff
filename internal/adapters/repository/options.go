package repository

import "github.com/okian/standings/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithTournament seeds the store with a snapshot built in code.
func WithTournament(t *model.Tournament) Option {
	return func(s *MemoryStore) {
		if t != nil {
			s.current.Store(t)
		}
	}
}
