package repository

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/okian/standings/internal/domain/model"
)

var validate = validator.New()

// document is the YAML layout of a tournament snapshot.
type document struct {
	Name          string         `yaml:"name" validate:"required"`
	CurrentRound  int            `yaml:"current_round" validate:"min=0"`
	ReleaseAll    bool           `yaml:"release_all"`
	Rounds        []roundDoc     `yaml:"rounds" validate:"dive"`
	Teams         []teamDoc      `yaml:"teams" validate:"dive"`
	Speakers      []speakerDoc   `yaml:"speakers" validate:"dive"`
	TeamScores    []teamScore    `yaml:"team_scores" validate:"dive"`
	SpeakerScores []speakerScore `yaml:"speaker_scores" validate:"dive"`
}

type roundDoc struct {
	Seq    int    `yaml:"seq" validate:"min=1"`
	Name   string `yaml:"name"`
	Stage  string `yaml:"stage" validate:"omitempty,oneof=preliminary elimination"`
	Silent bool   `yaml:"silent"`
}

type teamDoc struct {
	ID          string `yaml:"id" validate:"required"`
	Name        string `yaml:"name"`
	Institution string `yaml:"institution"`
	Division    string `yaml:"division"`
}

type speakerDoc struct {
	ID     string `yaml:"id" validate:"required"`
	Name   string `yaml:"name"`
	Team   string `yaml:"team" validate:"required"`
	Novice bool   `yaml:"novice"`
}

// Scores are confirmed unless the document says otherwise.
type teamScore struct {
	Team      string  `yaml:"team" validate:"required"`
	Round     int     `yaml:"round" validate:"min=1"`
	Opponent  string  `yaml:"opponent"`
	Points    int     `yaml:"points" validate:"min=0"`
	Margin    float64 `yaml:"margin"`
	Score     float64 `yaml:"score"`
	Confirmed *bool   `yaml:"confirmed"`
}

type speakerScore struct {
	Speaker   string  `yaml:"speaker" validate:"required"`
	Round     int     `yaml:"round" validate:"min=1"`
	Position  string  `yaml:"position" validate:"omitempty,oneof=substantive reply"`
	Score     float64 `yaml:"score"`
	Confirmed *bool   `yaml:"confirmed"`
}

// ReadFile decodes the YAML snapshot at path.
func ReadFile(path string) (*model.Tournament, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadSnapshot, err)
	}
	return Decode(bytes.NewReader(data))
}

// Decode reads a YAML snapshot, rejecting unknown fields, and builds the
// tournament model from it.
func Decode(r io.Reader) (*model.Tournament, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrLoadSnapshot, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return doc.build()
}

func (d document) build() (*model.Tournament, error) {
	rounds := make([]model.Round, len(d.Rounds))
	for i, r := range d.Rounds {
		stage := model.Stage(r.Stage)
		if stage == "" {
			stage = model.StagePreliminary
		}
		rounds[i] = model.Round{Seq: r.Seq, Name: r.Name, Stage: stage, Silent: r.Silent}
	}
	list, err := model.NewRoundList(rounds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	t := &model.Tournament{
		Name:         d.Name,
		CurrentRound: d.CurrentRound,
		ReleaseAll:   d.ReleaseAll,
		Rounds:       list,
	}

	teams := make(map[string]*model.Team, len(d.Teams))
	for _, td := range d.Teams {
		if _, dup := teams[td.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate team %q", ErrInvalidSnapshot, td.ID)
		}
		team := &model.Team{TeamID: td.ID, Name: td.Name, Institution: td.Institution, Division: td.Division}
		teams[td.ID] = team
		t.Teams = append(t.Teams, team)
	}

	speakers := make(map[string]*model.Speaker, len(d.Speakers))
	for _, sd := range d.Speakers {
		if _, dup := speakers[sd.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate speaker %q", ErrInvalidSnapshot, sd.ID)
		}
		if _, ok := teams[sd.Team]; !ok {
			return nil, fmt.Errorf("%w: speaker %q is on unknown team %q", ErrInvalidSnapshot, sd.ID, sd.Team)
		}
		s := &model.Speaker{SpeakerID: sd.ID, Name: sd.Name, TeamID: sd.Team, Novice: sd.Novice}
		speakers[sd.ID] = s
		t.Speakers = append(t.Speakers, s)
	}

	for _, ts := range d.TeamScores {
		team, ok := teams[ts.Team]
		if !ok {
			return nil, fmt.Errorf("%w: score for unknown team %q", ErrInvalidSnapshot, ts.Team)
		}
		if ts.Opponent != "" {
			if _, ok := teams[ts.Opponent]; !ok {
				return nil, fmt.Errorf("%w: team %q faced unknown team %q", ErrInvalidSnapshot, ts.Team, ts.Opponent)
			}
		}
		if _, ok := list.Get(ts.Round); !ok {
			return nil, fmt.Errorf("%w: team %q scored in unknown round %d", ErrInvalidSnapshot, ts.Team, ts.Round)
		}
		team.Records = append(team.Records, model.ScoreRecord{
			Round:     ts.Round,
			Confirmed: confirmed(ts.Confirmed),
			Opponent:  ts.Opponent,
			Points:    ts.Points,
			Margin:    ts.Margin,
			Score:     ts.Score,
		})
	}

	for _, ss := range d.SpeakerScores {
		s, ok := speakers[ss.Speaker]
		if !ok {
			return nil, fmt.Errorf("%w: score for unknown speaker %q", ErrInvalidSnapshot, ss.Speaker)
		}
		if _, ok := list.Get(ss.Round); !ok {
			return nil, fmt.Errorf("%w: speaker %q scored in unknown round %d", ErrInvalidSnapshot, ss.Speaker, ss.Round)
		}
		pos := model.PositionSubstantive
		if ss.Position == "reply" {
			pos = model.PositionReply
		}
		s.Records = append(s.Records, model.ScoreRecord{
			Round:     ss.Round,
			Confirmed: confirmed(ss.Confirmed),
			Score:     ss.Score,
			Position:  pos,
		})
	}
	return t, nil
}

func confirmed(b *bool) bool { return b == nil || *b }
