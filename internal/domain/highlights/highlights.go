// Package highlights picks out the best and worst individual results of a
// tournament: highest and lowest speeches and the widest and narrowest wins.
package highlights

import (
	"cmp"
	"slices"

	"github.com/okian/standings/internal/domain/model"
)

// Entry is one highlighted result.
type Entry struct {
	EntityID string     `json:"entity_id"`
	Kind     model.Kind `json:"kind"`
	Round    int        `json:"round"`
	Value    float64    `json:"value"`
	Opponent string     `json:"opponent,omitempty"`
	Position string     `json:"position,omitempty"`
}

// Summary groups every highlight list.
type Summary struct {
	TopSpeeches    []Entry `json:"top_speeches"`
	BottomSpeeches []Entry `json:"bottom_speeches"`
	TopMargins     []Entry `json:"top_margins"`
	BottomMargins  []Entry `json:"bottom_margins"`
}

// Build computes a Summary from confirmed records, keeping at most limit
// entries per list. Reply speeches never count as the lowest speeches, and
// only winning (non-negative) margins are listed as the narrowest.
func Build(teams, speakers []model.Entity, limit int) Summary {
	var speeches, margins []Entry
	for _, s := range speakers {
		for _, r := range model.ConfirmedScores(s) {
			speeches = append(speeches, Entry{
				EntityID: s.ID(),
				Kind:     s.Kind(),
				Round:    r.Round,
				Value:    r.Score,
				Position: string(r.Position),
			})
		}
	}
	for _, t := range teams {
		for _, r := range model.ConfirmedScores(t) {
			margins = append(margins, Entry{
				EntityID: t.ID(),
				Kind:     t.Kind(),
				Round:    r.Round,
				Value:    r.Margin,
				Opponent: r.Opponent,
			})
		}
	}

	substantive := slices.DeleteFunc(slices.Clone(speeches), func(e Entry) bool {
		return e.Position == string(model.PositionReply)
	})
	winning := slices.DeleteFunc(slices.Clone(margins), func(e Entry) bool { return e.Value < 0 })

	return Summary{
		TopSpeeches:    top(speeches, limit, descending),
		BottomSpeeches: top(substantive, limit, ascending),
		TopMargins:     top(margins, limit, descending),
		BottomMargins:  top(winning, limit, ascending),
	}
}

func ascending(a, b Entry) int { return cmp.Compare(a.Value, b.Value) }

func descending(a, b Entry) int { return cmp.Compare(b.Value, a.Value) }

// top sorts stably by value then round and entity id, and truncates.
func top(entries []Entry, limit int, order func(a, b Entry) int) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		if c := order(a, b); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Round, b.Round); c != 0 {
			return c
		}
		return cmp.Compare(a.EntityID, b.EntityID)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []Entry{}
	}
	return out
}
