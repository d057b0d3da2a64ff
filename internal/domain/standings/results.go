package standings

import (
	"slices"

	"github.com/okian/standings/internal/domain/model"
)

// ResultStatus says whether a round's outcome is known.
type ResultStatus string

const (
	StatusConfirmed ResultStatus = "confirmed"
	// StatusPending means a ballot exists but has not been confirmed.
	StatusPending ResultStatus = "pending"
	// StatusAbsent means no ballot exists for the entity in that round.
	StatusAbsent ResultStatus = "absent"
)

// Snapshot is the outcome attributable to one entity for one round.
type Snapshot struct {
	Round    int          `json:"round"`
	Status   ResultStatus `json:"status"`
	Won      bool         `json:"won,omitempty"`
	Margin   float64      `json:"margin,omitempty"`
	Score    float64      `json:"score,omitempty"`
	Opponent string       `json:"opponent,omitempty"`
}

// Available reports whether the snapshot holds a confirmed outcome. Pending
// and absent snapshots are both "not yet available".
func (s Snapshot) Available() bool { return s.Status == StatusConfirmed }

// ResultSource supplies one entity's outcome for one round.
type ResultSource interface {
	RoundResult(e model.Entity, round model.Round) Snapshot
}

// ScoreResults derives round outcomes from the entity's own score records.
// With Replies set, speaker outcomes come from reply speeches instead of
// substantive ones.
type ScoreResults struct {
	Replies bool
}

// RoundResult implements ResultSource.
func (s ScoreResults) RoundResult(e model.Entity, round model.Round) Snapshot {
	want := model.PositionSubstantive
	if s.Replies {
		want = model.PositionReply
	}
	snap := Snapshot{Round: round.Seq, Status: StatusAbsent}
	for _, r := range e.Scores() {
		if r.Round != round.Seq || r.Position != want {
			continue
		}
		if !r.Confirmed {
			snap.Status = StatusPending
			continue
		}
		return Snapshot{
			Round:    round.Seq,
			Status:   StatusConfirmed,
			Won:      r.Won(),
			Margin:   r.Margin,
			Score:    r.Score,
			Opponent: r.Opponent,
		}
	}
	return snap
}

// AttachRoundResults returns copies of records carrying one snapshot per
// round in ascending round order. Order and ranks are left untouched. A nil
// source falls back to ScoreResults.
func AttachRoundResults(records []Record, rounds model.RoundList, source ResultSource) []Record {
	if source == nil {
		source = ScoreResults{}
	}
	out := slices.Clone(records)
	for i := range out {
		history := make([]Snapshot, rounds.Len())
		for j := range history {
			history[j] = source.RoundResult(out[i].Entity, rounds.At(j))
		}
		out[i].RoundResults = history
		out[i].ResultsIn = resultsIn(history)
	}
	return out
}

// MarkResultsIn returns copies of records flagged as complete, for tabs that
// have been released in full.
func MarkResultsIn(records []Record) []Record {
	out := slices.Clone(records)
	for i := range out {
		out[i].ResultsIn = true
	}
	return out
}

func resultsIn(history []Snapshot) bool {
	return len(history) == 0 || history[len(history)-1].Available()
}
