package model

// Tournament is a bulk-loaded, read-only snapshot of everything the standings
// engine needs for one tournament.
type Tournament struct {
	Name         string
	CurrentRound int
	// ReleaseAll makes the current round's results public as soon as they are confirmed.
	ReleaseAll bool
	Rounds     RoundList
	Teams      []*Team
	Speakers   []*Speaker
}

// TeamEntities returns the teams as entities exposing only records from
// rounds.
func (t *Tournament) TeamEntities(rounds RoundList) []Entity {
	out := make([]Entity, 0, len(t.Teams))
	for _, team := range t.Teams {
		out = append(out, ScopeToRounds(team, rounds))
	}
	return out
}

// SpeakerEntities returns the speakers accepted by keep as entities exposing
// only records from rounds. A nil keep accepts every speaker.
func (t *Tournament) SpeakerEntities(rounds RoundList, keep func(*Speaker) bool) []Entity {
	out := make([]Entity, 0, len(t.Speakers))
	for _, s := range t.Speakers {
		if keep != nil && !keep(s) {
			continue
		}
		out = append(out, ScopeToRounds(s, rounds))
	}
	return out
}

// Team looks a team up by id.
func (t *Tournament) Team(id string) (*Team, bool) {
	for _, team := range t.Teams {
		if team.TeamID == id {
			return team, true
		}
	}
	return nil, false
}
