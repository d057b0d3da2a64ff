package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/okian/standings/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDecode(t *testing.T) {
	Convey("Given the sample tournament fixture", t, func() {
		tm, err := ReadFile(filepath.Join("testdata", "tournament.yaml"))
		So(err, ShouldBeNil)

		Convey("Then the tournament is fully built", func() {
			So(tm.Name, ShouldEqual, "Northern Open")
			So(tm.CurrentRound, ShouldEqual, 3)
			So(tm.Rounds.Len(), ShouldEqual, 4)
			So(tm.Rounds.At(3).Stage, ShouldEqual, model.StageElimination)
			So(tm.Rounds.At(2).Silent, ShouldBeTrue)
			So(tm.Teams, ShouldHaveLength, 4)
			So(tm.Speakers, ShouldHaveLength, 8)
		})

		Convey("And score records are attached to their owners", func() {
			a, ok := tm.Team("A")
			So(ok, ShouldBeTrue)
			So(a.Records, ShouldHaveLength, 3)
			So(a.Records[0], ShouldResemble, model.ScoreRecord{
				Round: 1, Confirmed: true, Opponent: "B", Points: 1, Margin: 5, Score: 150,
			})
			So(a.Records[2].Confirmed, ShouldBeFalse)

			a1 := tm.Speakers[0]
			So(a1.SpeakerID, ShouldEqual, "a1")
			So(a1.Records[1].Position, ShouldEqual, model.PositionReply)
			So(tm.Speakers[1].Novice, ShouldBeTrue)
		})
	})

	Convey("Given invalid snapshots", t, func() {
		cases := map[string]string{
			"missing name":       "rounds: [{seq: 1}]\n",
			"bad stage":          "name: x\nrounds: [{seq: 1, stage: final}]\n",
			"duplicate round":    "name: x\nrounds: [{seq: 1}, {seq: 1}]\n",
			"duplicate team":     "name: x\nteams: [{id: A}, {id: A}]\n",
			"orphan speaker":     "name: x\nteams: [{id: A}]\nspeakers: [{id: s, team: B}]\n",
			"unknown team score": "name: x\nrounds: [{seq: 1}]\nteam_scores: [{team: Z, round: 1}]\n",
			"unknown opponent":   "name: x\nrounds: [{seq: 1}]\nteams: [{id: A}]\nteam_scores: [{team: A, round: 1, opponent: Q}]\n",
			"unknown round":      "name: x\nrounds: [{seq: 1}]\nteams: [{id: A}]\nteam_scores: [{team: A, round: 2}]\n",
			"negative points":    "name: x\nrounds: [{seq: 1}]\nteams: [{id: A}]\nteam_scores: [{team: A, round: 1, points: -1}]\n",
			"bad position":       "name: x\nrounds: [{seq: 1}]\nteams: [{id: A}]\nspeakers: [{id: s, team: A}]\nspeaker_scores: [{speaker: s, round: 1, position: whip}]\n",
		}
		for name, doc := range cases {
			Convey("When decoding a snapshot with "+name, func() {
				_, err := Decode(strings.NewReader(doc))

				Convey("Then it is rejected as invalid", func() {
					So(errors.Is(err, ErrInvalidSnapshot), ShouldBeTrue)
				})
			})
		}

		Convey("When the document has an unknown field", func() {
			_, err := Decode(strings.NewReader("name: x\nmotions: []\n"))

			Convey("Then it fails to load", func() {
				So(errors.Is(err, ErrLoadSnapshot), ShouldBeTrue)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := ReadFile("/non/existent/tournament.yaml")

			Convey("Then it fails to load", func() {
				So(errors.Is(err, ErrLoadSnapshot), ShouldBeTrue)
			})
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a new memory store", t, func() {
		ctx := context.Background()
		store := NewMemoryStore()

		Convey("Then it serves an empty tournament", func() {
			tm, err := store.Snapshot(ctx)
			So(err, ShouldBeNil)
			So(tm.Teams, ShouldBeEmpty)
			So(tm.Rounds.Len(), ShouldEqual, 0)
		})

		Convey("When a fixture file is loaded", func() {
			err := store.LoadFile(ctx, filepath.Join("testdata", "tournament.yaml"))
			So(err, ShouldBeNil)

			Convey("Then the snapshot is replaced", func() {
				tm, err := store.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(tm.Name, ShouldEqual, "Northern Open")
			})

			Convey("And a broken file leaves the previous snapshot in place", func() {
				path := filepath.Join(t.TempDir(), "broken.yaml")
				So(os.WriteFile(path, []byte("name: [\n"), 0o600), ShouldBeNil)

				So(store.LoadFile(ctx, path), ShouldNotBeNil)
				tm, err := store.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(tm.Name, ShouldEqual, "Northern Open")
			})
		})

		Convey("When replacing with nil", func() {
			err := store.Replace(nil)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, ErrInvalidSnapshot), ShouldBeTrue)
			})
		})

		Convey("When the context is canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := store.Snapshot(cctx)

			Convey("Then the read fails", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given a store seeded in code", t, func() {
		seed := &model.Tournament{Name: "seeded"}
		store := NewMemoryStore(WithTournament(seed))

		Convey("When read and replaced concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_ = store.Replace(&model.Tournament{Name: "next"})
				}()
				go func() {
					defer wg.Done()
					tm, err := store.Snapshot(context.Background())
					if err == nil && tm == nil {
						panic("nil snapshot")
					}
				}()
			}
			wg.Wait()

			Convey("Then readers always see a whole snapshot", func() {
				tm, err := store.Snapshot(context.Background())
				So(err, ShouldBeNil)
				So(tm.Name, ShouldEqual, "next")
			})
		})
	})
}
