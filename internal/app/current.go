package service

import (
	"cmp"
	"context"
	"slices"

	"github.com/okian/standings/internal/domain/metric"
	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/standings"
)

const tableCurrent = "current"

// Current lists every team's public results up to the latest round whose
// results may be shown.
type Current struct {
	Round  *RoundInfo  `json:"round"`
	Rounds []RoundInfo `json:"rounds"`
	Rows   []Row       `json:"rows"`
}

// CurrentResults finds the most recent non-silent preliminary round that is
// public and lists teams by institution then name, with their wins and
// results over visible rounds. Before any round is public the lists are
// empty and Round is nil.
func (s *Service) CurrentResults(ctx context.Context) (*Current, error) {
	t, err := s.snapshot(ctx)
	if err != nil {
		return nil, s.fail(ctx, tableCurrent, err)
	}
	round, ok := t.Rounds.LatestVisible(t.CurrentRound, t.ReleaseAll)
	if !ok {
		return &Current{Rounds: []RoundInfo{}, Rows: []Row{}}, nil
	}
	rounds := t.Rounds.Until(round.Seq).Preliminary().Visible()

	teams := slices.Clone(t.Teams)
	slices.SortStableFunc(teams, func(a, b *model.Team) int {
		if c := cmp.Compare(a.Institution, b.Institution); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	records := make([]standings.Record, len(teams))
	for i, team := range teams {
		e := model.ScopeToRounds(team, rounds)
		wins, err := s.registry.Compute("wins", e, e.Scores(), nil)
		if err != nil {
			return nil, s.fail(ctx, tableCurrent, err)
		}
		records[i] = standings.Record{
			Entity:  e,
			ID:      e.ID(),
			Kind:    e.Kind(),
			Metrics: map[string]metric.Value{"wins": wins},
			Ranks:   map[string]standings.Rank{},
		}
	}
	records = standings.AttachRoundResults(records, rounds, standings.ScoreResults{})

	info := RoundInfo{Seq: round.Seq, Name: round.Name}
	out := &Current{Round: &info, Rounds: roundInfos(rounds), Rows: make([]Row, len(records))}
	for i, r := range records {
		out.Rows[i] = newRow(r)
	}
	return out, nil
}
