package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/okian/standings/internal/domain/highlights"
	"github.com/okian/standings/internal/domain/model"
)

const (
	tableTab        = "tab"
	tableHighlights = "highlights"
)

// Tab is every standings table of a tournament built from one snapshot.
type Tab struct {
	Teams          *Table             `json:"teams"`
	Divisions      *Table             `json:"divisions"`
	Speakers       *Table             `json:"speakers"`
	NoviceSpeakers *Table             `json:"novice_speakers"`
	ProSpeakers    *Table             `json:"pro_speakers"`
	Replies        *Table             `json:"replies"`
	Highlights     highlights.Summary `json:"highlights"`
}

// Tab builds all tables concurrently from a single snapshot. The round is
// resolved once up front. The first failure is returned and the others are
// discarded.
func (s *Service) Tab(ctx context.Context, round int) (*Tab, error) {
	t, err := s.load(ctx, tableTab)
	if err != nil {
		return nil, err
	}
	if round, err = resolveRound(t, round); err != nil {
		return nil, s.fail(ctx, tableTab, err)
	}

	tab := Tab{Highlights: s.highlights(t)}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		tab.Teams, err = s.teamTable(gctx, t, TableTeams, round, false)
		return err
	})
	g.Go(func() (err error) {
		tab.Divisions, err = s.teamTable(gctx, t, TableDivisions, round, true)
		return err
	})
	g.Go(func() (err error) {
		tab.Speakers, err = s.speakerTable(gctx, t, round, CategoryAll)
		return err
	})
	g.Go(func() (err error) {
		tab.NoviceSpeakers, err = s.speakerTable(gctx, t, round, CategoryNovice)
		return err
	})
	g.Go(func() (err error) {
		tab.ProSpeakers, err = s.speakerTable(gctx, t, round, CategoryPro)
		return err
	})
	g.Go(func() (err error) {
		tab.Replies, err = s.replyTable(gctx, t, round)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &tab, nil
}

// Highlights lists the best and worst confirmed results of the tournament.
func (s *Service) Highlights(ctx context.Context) (highlights.Summary, error) {
	t, err := s.load(ctx, tableHighlights)
	if err != nil {
		return highlights.Summary{}, err
	}
	return s.highlights(t), nil
}

func (s *Service) highlights(t *model.Tournament) highlights.Summary {
	return highlights.Build(t.TeamEntities(t.Rounds), t.SpeakerEntities(t.Rounds, nil), s.highlightsLimit)
}
