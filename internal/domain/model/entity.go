// Package model contains the read-only tournament views handed to the
// standings engine. Everything here is built fresh from a bulk-loaded
// snapshot and is never mutated once constructed.
package model

// Kind distinguishes the two kinds of competitor that can be ranked.
type Kind string

const (
	KindTeam    Kind = "team"
	KindSpeaker Kind = "speaker"
)

// Position is the speaking position a score was earned in.
type Position string

const (
	PositionSubstantive Position = ""
	PositionReply       Position = "reply"
)

// ScoreRecord is one reported result for a single competitor in a single round.
type ScoreRecord struct {
	Round     int      // round sequence number
	Confirmed bool     // only confirmed ballots count towards metrics
	Opponent  string   // opposing team id (team records)
	Points    int      // 1 for a win, 0 for a loss (team records)
	Margin    float64  // team margin for the debate
	Score     float64  // team total or individual speech score
	Position  Position // substantive or reply (speaker records)
}

// Won reports whether the record is a win.
func (r ScoreRecord) Won() bool { return r.Points > 0 }

// Entity is anything the engine can rank. Sorting, ranking and filtering are
// written against this interface only.
type Entity interface {
	ID() string
	Kind() Kind
	// Scores returns every record attributable to the entity, confirmed or not.
	Scores() []ScoreRecord
}

// Team is a debating team.
type Team struct {
	TeamID      string
	Name        string
	Institution string
	Division    string
	Records     []ScoreRecord
}

func (t *Team) ID() string            { return t.TeamID }
func (t *Team) Kind() Kind            { return KindTeam }
func (t *Team) Scores() []ScoreRecord { return t.Records }

// Speaker is an individual speaker on a team.
type Speaker struct {
	SpeakerID string
	Name      string
	TeamID    string
	Novice    bool
	Records   []ScoreRecord
}

func (s *Speaker) ID() string            { return s.SpeakerID }
func (s *Speaker) Kind() Kind            { return KindSpeaker }
func (s *Speaker) Scores() []ScoreRecord { return s.Records }

// ConfirmedScores returns the entity's confirmed records in their original order.
func ConfirmedScores(e Entity) []ScoreRecord {
	all := e.Scores()
	out := make([]ScoreRecord, 0, len(all))
	for _, r := range all {
		if r.Confirmed {
			out = append(out, r)
		}
	}
	return out
}

// scoped restricts an entity to a subset of its records.
type scoped struct {
	Entity
	records []ScoreRecord
}

func (s scoped) Scores() []ScoreRecord { return s.records }

// Unwrap returns the entity the view was built from.
func (s scoped) Unwrap() Entity { return s.Entity }

func restrict(e Entity, keep func(round int) bool) Entity {
	all := e.Scores()
	records := make([]ScoreRecord, 0, len(all))
	for _, r := range all {
		if keep(r.Round) {
			records = append(records, r)
		}
	}
	return scoped{Entity: e, records: records}
}

// ScopeToRound returns a view of e that only exposes records from rounds with
// a sequence number <= seq.
func ScopeToRound(e Entity, seq int) Entity {
	return restrict(e, func(round int) bool { return round <= seq })
}

// ScopeToRounds returns a view of e that only exposes records from the given
// rounds. Records from rounds missing from the list, such as elimination
// rounds left out of a preliminary list, are hidden.
func ScopeToRounds(e Entity, rounds RoundList) Entity {
	return restrict(e, func(round int) bool {
		_, ok := rounds.Index(round)
		return ok
	})
}

// Underlying strips any views added by ScopeToRound or ScopeToRounds.
func Underlying(e Entity) Entity {
	for {
		u, ok := e.(interface{ Unwrap() Entity })
		if !ok {
			return e
		}
		e = u.Unwrap()
	}
}
