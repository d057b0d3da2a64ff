package standings_test

import (
	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/standings"
)

func win(round int, margin, score float64) model.ScoreRecord {
	return model.ScoreRecord{Round: round, Confirmed: true, Points: 1, Margin: margin, Score: score}
}

func loss(round int, margin, score float64) model.ScoreRecord {
	return model.ScoreRecord{Round: round, Confirmed: true, Margin: margin, Score: score}
}

func speech(round int, score float64) model.ScoreRecord {
	return model.ScoreRecord{Round: round, Confirmed: true, Score: score}
}

func replySpeech(round int, score float64) model.ScoreRecord {
	return model.ScoreRecord{Round: round, Confirmed: true, Score: score, Position: model.PositionReply}
}

func unconfirmed(r model.ScoreRecord) model.ScoreRecord {
	r.Confirmed = false
	return r
}

func team(id string, records ...model.ScoreRecord) *model.Team {
	return &model.Team{TeamID: id, Name: id, Records: records}
}

func speaker(id string, records ...model.ScoreRecord) *model.Speaker {
	return &model.Speaker{SpeakerID: id, Name: id, Records: records}
}

func entities[E model.Entity](es ...E) []model.Entity {
	out := make([]model.Entity, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

func ids(records []standings.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func positions(records []standings.Record, dimension string) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Rank(dimension).Position
	}
	return out
}
