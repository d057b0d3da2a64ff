package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/standings"
	"github.com/okian/standings/pkg/logger"
	"github.com/okian/standings/pkg/metrics"
)

// Table names.
const (
	TableTeams          = "teams"
	TableDivisions      = "divisions"
	TableSpeakers       = "speakers"
	TableNoviceSpeakers = "novice_speakers"
	TableProSpeakers    = "pro_speakers"
	TableReplies        = "replies"
)

// DivisionDimension ranks teams within their division.
const DivisionDimension = "division"

// Category selects a subset of speakers.
type Category string

const (
	CategoryAll    Category = "all"
	CategoryNovice Category = "novice"
	CategoryPro    Category = "pro"
)

// ParseCategory accepts "", all, novice and pro.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case "", CategoryAll:
		return CategoryAll, nil
	case CategoryNovice, CategoryPro:
		return Category(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

func (c Category) table() string {
	switch c {
	case CategoryNovice:
		return TableNoviceSpeakers
	case CategoryPro:
		return TableProSpeakers
	default:
		return TableSpeakers
	}
}

func (c Category) keep(sp *model.Speaker) bool {
	switch c {
	case CategoryNovice:
		return sp.Novice
	case CategoryPro:
		return !sp.Novice
	default:
		return true
	}
}

// RoundInfo describes a round column of a table.
type RoundInfo struct {
	Seq    int    `json:"seq"`
	Name   string `json:"name"`
	Silent bool   `json:"silent,omitempty"`
}

// Row is one standings record with display details of its entity.
type Row struct {
	standings.Record
	Name        string `json:"name"`
	Team        string `json:"team,omitempty"`
	Institution string `json:"institution,omitempty"`
	Division    string `json:"division,omitempty"`
	Novice      bool   `json:"novice,omitempty"`
}

// Table is one generated standings table.
type Table struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Round      int         `json:"round"`
	Rounds     []RoundInfo `json:"rounds"`
	Precedence []string    `json:"precedence"`
	Extra      []string    `json:"extra"`
	Dimensions []string    `json:"dimensions"`
	Rows       []Row       `json:"rows"`
}

// TeamStandings ranks every team. A round of 0 means the tournament's
// current round.
func (s *Service) TeamStandings(ctx context.Context, round int) (*Table, error) {
	t, err := s.load(ctx, TableTeams)
	if err != nil {
		return nil, err
	}
	return s.teamTable(ctx, t, TableTeams, round, false)
}

// DivisionStandings ranks teams overall and within their divisions.
// Teams without a division are ranked overall only.
func (s *Service) DivisionStandings(ctx context.Context, round int) (*Table, error) {
	t, err := s.load(ctx, TableDivisions)
	if err != nil {
		return nil, err
	}
	return s.teamTable(ctx, t, TableDivisions, round, true)
}

// SpeakerStandings ranks substantive speakers of a category. Speakers who
// missed too many debates are listed unranked.
func (s *Service) SpeakerStandings(ctx context.Context, round int, category Category) (*Table, error) {
	t, err := s.load(ctx, category.table())
	if err != nil {
		return nil, err
	}
	return s.speakerTable(ctx, t, round, category)
}

// ReplyStandings ranks speakers who gave at least one reply speech.
func (s *Service) ReplyStandings(ctx context.Context, round int) (*Table, error) {
	t, err := s.load(ctx, TableReplies)
	if err != nil {
		return nil, err
	}
	return s.replyTable(ctx, t, round)
}

func (s *Service) load(ctx context.Context, table string) (*model.Tournament, error) {
	t, err := s.snapshot(ctx)
	if err != nil {
		return nil, s.fail(ctx, table, err)
	}
	return t, nil
}

func (s *Service) teamTable(ctx context.Context, t *model.Tournament, table string, round int, divisions bool) (*Table, error) {
	seq, rounds, err := s.scope(ctx, t, table, round)
	if err != nil {
		return nil, err
	}
	gen, err := s.teamGenerator(divisions)
	if err != nil {
		return nil, s.fail(ctx, table, err)
	}
	return s.build(ctx, table, seq, gen, t.TeamEntities(rounds), rounds, standings.ScoreResults{})
}

func (s *Service) speakerTable(ctx context.Context, t *model.Tournament, round int, category Category) (*Table, error) {
	table := category.table()
	seq, rounds, err := s.scope(ctx, t, table, round)
	if err != nil {
		return nil, err
	}
	gen, err := s.speakerGenerator(rounds.Len())
	if err != nil {
		return nil, s.fail(ctx, table, err)
	}
	return s.build(ctx, table, seq, gen, t.SpeakerEntities(rounds, category.keep), rounds, standings.ScoreResults{})
}

func (s *Service) replyTable(ctx context.Context, t *model.Tournament, round int) (*Table, error) {
	seq, rounds, err := s.scope(ctx, t, TableReplies, round)
	if err != nil {
		return nil, err
	}
	gen, err := s.replyGenerator()
	if err != nil {
		return nil, s.fail(ctx, TableReplies, err)
	}
	return s.build(ctx, TableReplies, seq, gen, t.SpeakerEntities(rounds, nil), rounds, standings.ScoreResults{Replies: true})
}

// scope resolves the round a table is limited to, along with the
// preliminary rounds up to it. Those rounds are both the table's history and
// the only rounds whose records feed its metrics.
func (s *Service) scope(ctx context.Context, t *model.Tournament, table string, round int) (int, model.RoundList, error) {
	seq, err := resolveRound(t, round)
	if err != nil {
		return 0, model.RoundList{}, s.fail(ctx, table, err)
	}
	if seq > 0 {
		return seq, t.Rounds.Until(seq).Preliminary(), nil
	}
	return 0, t.Rounds.Preliminary(), nil
}

// resolveRound validates an explicit round, or falls back to the current
// round. Zero means every round.
func resolveRound(t *model.Tournament, requested int) (int, error) {
	if requested != 0 {
		if _, ok := t.Rounds.Get(requested); !ok {
			return 0, fmt.Errorf("%w: %d", ErrRoundNotFound, requested)
		}
		return requested, nil
	}
	if _, ok := t.Rounds.Get(t.CurrentRound); ok {
		return t.CurrentRound, nil
	}
	return 0, nil
}

func (s *Service) build(ctx context.Context, table string, seq int, gen *standings.Generator,
	entities []model.Entity, rounds model.RoundList, source standings.ResultSource,
) (*Table, error) {
	start := time.Now()
	records, err := gen.Generate(entities)
	if err != nil {
		return nil, s.fail(ctx, table, err)
	}
	records = standings.AttachRoundResults(records, rounds, source)
	if s.publicReleased {
		records = standings.MarkResultsIn(records)
	}

	out := &Table{
		ID:         uuid.New(),
		Name:       table,
		Round:      seq,
		Rounds:     roundInfos(rounds),
		Precedence: gen.Precedence(),
		Extra:      gen.Extra(),
		Dimensions: gen.Dimensions(),
		Rows:       make([]Row, len(records)),
	}
	ranked := 0
	for i, r := range records {
		out.Rows[i] = newRow(r)
		if r.Rank(standings.DefaultDimension).Ranked() {
			ranked++
		}
	}

	elapsed := time.Since(start)
	s.generated.Add(1)
	metrics.RecordGeneration(table, float64(elapsed.Microseconds())/1000, ranked, len(records)-ranked)
	s.log().Debug(ctx, "standings generated",
		logger.String("table", table),
		logger.String("id", out.ID.String()),
		logger.Int("round", seq),
		logger.Int("rows", len(records)),
		logger.Int("ranked", ranked),
		logger.Duration("elapsed", elapsed),
	)
	return out, nil
}

// fail records a failed generation and passes the error through.
func (s *Service) fail(ctx context.Context, table string, err error) error {
	reason := errorReason(err)
	s.failed.Add(1)
	metrics.RecordGenerationError(table, reason)
	metrics.RecordErrorByComponent("service", reason)
	s.log().Warn(ctx, "standings generation failed",
		logger.String("table", table),
		logger.String("reason", reason),
		logger.Error(err),
	)
	return err
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger == nil {
		return logger.Nop()
	}
	return s.logger
}

func (s *Service) teamGenerator(divisions bool) (*standings.Generator, error) {
	opts := []standings.Option{standings.WithPrecision(s.precision)}
	if divisions {
		opts = append(opts, standings.WithDimensions(
			standings.Overall(),
			standings.Dimension{Name: DivisionDimension, Group: teamDivision},
		))
	}
	return standings.NewGenerator(s.registry, s.teamPrecedence, s.teamExtra, opts...)
}

// speakerGenerator ranks by average or total speaks. Only speakers who have
// spoken in at least prelims-missable rounds are numbered.
func (s *Service) speakerGenerator(prelims int) (*standings.Generator, error) {
	var precedence, extra []string
	opts := []standings.Option{standings.WithPrecision(s.precision)}
	switch s.rankSpeakersBy {
	case RankByAverage:
		precedence = []string{"speaks_avg"}
		extra = []string{"speaks_sum", "speaks_stddev", "speeches_count"}
		// Speakers who have not spoken have no average to sort by.
		opts = append(opts, standings.WithInclusionFilter(standings.GreaterThan("speeches_count", 0)))
	case RankByTotal:
		precedence = []string{"speaks_sum"}
		extra = []string{"speaks_avg", "speaks_stddev", "speeches_count"}
	default:
		return nil, &standings.ConfigurationError{
			Field:  "rank_speakers_by",
			Reason: fmt.Sprintf("unknown mode %q", s.rankSpeakersBy),
		}
	}
	if s.missedDebates >= 0 {
		opts = append(opts, standings.WithEligibilityFilter(
			standings.MinimumDebates("speeches_count", prelims, s.missedDebates),
		))
	}
	return standings.NewGenerator(s.registry, precedence, extra, opts...)
}

func (s *Service) replyGenerator() (*standings.Generator, error) {
	return standings.NewGenerator(s.registry,
		[]string{"replies_avg"},
		[]string{"replies_stddev", "replies_count"},
		standings.WithPrecision(s.precision),
		standings.WithInclusionFilter(standings.GreaterThan("replies_count", 0)),
	)
}

func teamDivision(e model.Entity) string {
	if t, ok := model.Underlying(e).(*model.Team); ok {
		return t.Division
	}
	return ""
}

func roundInfos(rounds model.RoundList) []RoundInfo {
	out := make([]RoundInfo, rounds.Len())
	for i := range out {
		r := rounds.At(i)
		out[i] = RoundInfo{Seq: r.Seq, Name: r.Name, Silent: r.Silent}
	}
	return out
}

func newRow(r standings.Record) Row {
	row := Row{Record: r}
	switch e := model.Underlying(r.Entity).(type) {
	case *model.Team:
		row.Name = e.Name
		row.Institution = e.Institution
		row.Division = e.Division
	case *model.Speaker:
		row.Name = e.Name
		row.Team = e.TeamID
		row.Novice = e.Novice
	}
	return row
}
