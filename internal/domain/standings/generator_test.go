package standings_test

import (
	"errors"
	"testing"

	"github.com/okian/standings/internal/domain/metric"
	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerator_StandardCompetitionRanking(t *testing.T) {
	Convey("Given teams ranked by wins", t, func() {
		reg := metric.NewRegistry()
		gen, err := standings.NewGenerator(reg, []string{"wins"}, nil)
		So(err, ShouldBeNil)

		a := team("A", win(1, 5, 150), win(2, 5, 150), win(3, 5, 150))
		b := team("B", win(1, 5, 150), win(2, 5, 150), loss(3, -5, 140))
		c := team("C", loss(1, -5, 140), win(2, 5, 150), win(3, 5, 150))

		Convey("When three teams have 3, 2 and 2 wins", func() {
			records, err := gen.Generate(entities(a, b, c))
			So(err, ShouldBeNil)

			Convey("Then the tied teams share second place", func() {
				So(ids(records), ShouldResemble, []string{"A", "B", "C"})
				So(positions(records, standings.DefaultDimension), ShouldResemble, []int{1, 2, 2})
				So(records[0].Rank(standings.DefaultDimension).Tied, ShouldBeFalse)
				So(records[1].Rank(standings.DefaultDimension).Tied, ShouldBeTrue)
				So(records[2].Rank(standings.DefaultDimension).String(), ShouldEqual, "2=")
			})
		})

		Convey("When a fourth team has one win", func() {
			d := team("D", win(1, 5, 150), loss(2, -5, 140), loss(3, -5, 140))
			records, err := gen.Generate(entities(d, c, b, a))
			So(err, ShouldBeNil)

			Convey("Then it is ranked fourth, skipping third", func() {
				So(ids(records), ShouldResemble, []string{"A", "C", "B", "D"})
				So(positions(records, standings.DefaultDimension), ShouldResemble, []int{1, 2, 2, 4})
			})
		})
	})
}

func TestGenerator_PrecedenceTieBreak(t *testing.T) {
	Convey("Given precedence (wins, margin_sum)", t, func() {
		reg := metric.NewRegistry()
		a := team("A", win(1, 4, 150), win(2, 6, 150))
		b := team("B", win(1, 7, 150), win(2, 8, 150))

		Convey("When both teams have two wins but B has the larger margin", func() {
			gen, err := standings.NewGenerator(reg, []string{"wins", "margin_sum"}, nil)
			So(err, ShouldBeNil)
			records, err := gen.Generate(entities(a, b))
			So(err, ShouldBeNil)

			Convey("Then B sorts first and the ranks are distinct", func() {
				So(ids(records), ShouldResemble, []string{"B", "A"})
				So(positions(records, standings.DefaultDimension), ShouldResemble, []int{1, 2})
				So(records[0].Metric("margin_sum").Number, ShouldEqual, 15)
				So(records[1].Metric("margin_sum").Number, ShouldEqual, 10)
			})
		})

		Convey("When the precedence is reordered", func() {
			x := team("X", win(1, 1, 150), win(2, 1, 150), win(3, 1, 150))
			y := team("Y", win(1, 20, 150), loss(2, -1, 150), loss(3, -1, 150))
			byWins, err := standings.NewGenerator(reg, []string{"wins", "margin_sum"}, nil)
			So(err, ShouldBeNil)
			byMargin, err := standings.NewGenerator(reg, []string{"margin_sum", "wins"}, nil)
			So(err, ShouldBeNil)

			first, err := byWins.Generate(entities(x, y))
			So(err, ShouldBeNil)
			second, err := byMargin.Generate(entities(x, y))
			So(err, ShouldBeNil)
			again, err := byMargin.Generate(entities(x, y))
			So(err, ShouldBeNil)

			Convey("Then the order changes and is reproducible", func() {
				So(ids(first), ShouldResemble, []string{"X", "Y"})
				So(ids(second), ShouldResemble, []string{"Y", "X"})
				So(ids(again), ShouldResemble, ids(second))
			})
		})
	})
}

func TestGenerator_StableTieBreak(t *testing.T) {
	Convey("Given entities with identical precedence values", t, func() {
		gen, err := standings.NewGenerator(metric.NewRegistry(), []string{"wins"}, nil)
		So(err, ShouldBeNil)
		p := team("P", win(1, 1, 1))
		q := team("Q", win(1, 1, 1))
		r := team("R", win(1, 1, 1))

		Convey("Then they keep their input order and share rank 1", func() {
			records, err := gen.Generate(entities(q, r, p))
			So(err, ShouldBeNil)
			So(ids(records), ShouldResemble, []string{"Q", "R", "P"})
			So(positions(records, standings.DefaultDimension), ShouldResemble, []int{1, 1, 1})
		})
	})
}

func TestGenerator_Filters(t *testing.T) {
	Convey("Given speakers ranked by total speaks", t, func() {
		reg := metric.NewRegistry()
		s1 := speaker("S1", speech(1, 75), speech(2, 75), speech(3, 75))
		s2 := speaker("S2", speech(1, 115), speech(2, 115))
		s3 := speaker("S3", speech(1, 70), speech(2, 70), speech(3, 70))
		s4 := speaker("S4", speech(1, 70), speech(2, 70), speech(3, 70))

		Convey("When eligibility requires at least three speeches", func() {
			gen, err := standings.NewGenerator(reg,
				[]string{"speaks_sum"}, []string{"speeches_count"},
				standings.WithEligibilityFilter(standings.AtLeast("speeches_count", 3)),
			)
			So(err, ShouldBeNil)
			records, err := gen.Generate(entities(s1, s2, s3, s4))
			So(err, ShouldBeNil)

			Convey("Then the partial participant is shown but unranked", func() {
				So(ids(records), ShouldResemble, []string{"S2", "S1", "S3", "S4"})
				So(records[0].Rank(standings.DefaultDimension), ShouldResemble, standings.Unranked)
				So(records[0].Rank(standings.DefaultDimension).Ranked(), ShouldBeFalse)
			})

			Convey("And the ranked entities keep contiguous numbering", func() {
				So(positions(records, standings.DefaultDimension), ShouldResemble, []int{0, 1, 2, 2})
			})

			Convey("And fewer entities are ranked than included", func() {
				ranked := 0
				for _, r := range records {
					if r.Rank(standings.DefaultDimension).Ranked() {
						ranked++
					}
				}
				So(ranked, ShouldEqual, 3)
				So(ranked, ShouldBeLessThan, len(records))
			})
		})

		Convey("When no eligibility filter is set", func() {
			gen, err := standings.NewGenerator(reg, []string{"speaks_sum"}, nil)
			So(err, ShouldBeNil)
			records, err := gen.Generate(entities(s1, s2, s3, s4))
			So(err, ShouldBeNil)

			Convey("Then every included entity is ranked", func() {
				for _, r := range records {
					So(r.Rank(standings.DefaultDimension).Ranked(), ShouldBeTrue)
				}
			})
		})

		Convey("When an inclusion filter requires a reply", func() {
			r1 := speaker("R1", speech(1, 75), replySpeech(1, 37))
			r2 := speaker("R2", speech(1, 76))
			gen, err := standings.NewGenerator(reg,
				[]string{"replies_avg"}, []string{"replies_count"},
				standings.WithInclusionFilter(standings.GreaterThan("replies_count", 0)),
			)
			So(err, ShouldBeNil)
			records, err := gen.Generate(entities(r1, r2))

			Convey("Then speakers without replies are dropped before missing data is checked", func() {
				So(err, ShouldBeNil)
				So(ids(records), ShouldResemble, []string{"R1"})
				So(records[0].Metric("replies_avg").Number, ShouldEqual, 37)
			})
		})

		Convey("When filters are combined", func() {
			gen, err := standings.NewGenerator(reg,
				[]string{"speaks_sum"}, []string{"speeches_count"},
				standings.WithInclusionFilter(standings.All(
					standings.AtLeast("speaks_sum", 200),
					standings.MinimumDebates("speeches_count", 3, 0),
				)),
			)
			So(err, ShouldBeNil)
			records, err := gen.Generate(entities(s1, s2, s3, s4))
			So(err, ShouldBeNil)

			Convey("Then only entities passing every filter appear", func() {
				So(ids(records), ShouldResemble, []string{"S1", "S3", "S4"})
			})
		})
	})
}

func TestGenerator_ConfirmedRecordsOnly(t *testing.T) {
	Convey("Given a team with an unconfirmed win", t, func() {
		gen, err := standings.NewGenerator(metric.NewRegistry(), []string{"wins"}, []string{"debates_count"})
		So(err, ShouldBeNil)
		a := team("A", win(1, 5, 150), unconfirmed(win(2, 5, 150)))
		b := team("B", win(1, 5, 150), win(2, 5, 150))

		Convey("Then the unconfirmed record is ignored", func() {
			records, err := gen.Generate(entities(a, b))
			So(err, ShouldBeNil)
			So(ids(records), ShouldResemble, []string{"B", "A"})
			So(records[1].Metric("wins").Number, ShouldEqual, 1)
			So(records[1].Metric("debates_count").Number, ShouldEqual, 1)
		})
	})
}

func TestGenerator_MissingData(t *testing.T) {
	Convey("Given a speaker who has not spoken", t, func() {
		reg := metric.NewRegistry()
		active := speaker("S1", speech(1, 75))
		idle := speaker("S2")

		Convey("When an average is a precedence metric", func() {
			gen, err := standings.NewGenerator(reg, []string{"speaks_avg"}, nil)
			So(err, ShouldBeNil)
			records, err := gen.Generate(entities(active, idle))

			Convey("Then the generation fails loudly", func() {
				So(records, ShouldBeNil)
				So(errors.Is(err, standings.ErrMissingData), ShouldBeTrue)
				var missing *metric.MissingDataError
				So(errors.As(err, &missing), ShouldBeTrue)
				So(missing.Entity, ShouldEqual, "S2")
				So(missing.Metric, ShouldEqual, "speaks_avg")
			})
		})

		Convey("When an average is only an extra metric", func() {
			gen, err := standings.NewGenerator(reg, []string{"speaks_sum"}, []string{"speaks_avg", "speaks_stddev"})
			So(err, ShouldBeNil)
			records, err := gen.Generate(entities(active, idle))

			Convey("Then it carries the no-data sentinel", func() {
				So(err, ShouldBeNil)
				So(records[1].ID, ShouldEqual, "S2")
				So(records[1].Metric("speaks_avg").Valid, ShouldBeFalse)
				So(records[1].Metric("speaks_sum"), ShouldResemble, metric.Of(0))
			})
		})
	})
}

func TestGenerator_Configuration(t *testing.T) {
	Convey("Given a metric registry", t, func() {
		reg := metric.NewRegistry()

		Convey("When precedence is empty", func() {
			_, err := standings.NewGenerator(reg, nil, []string{"wins"})
			Convey("Then a configuration error is returned", func() {
				So(errors.Is(err, standings.ErrConfiguration), ShouldBeTrue)
			})
		})

		Convey("When a metric is unknown", func() {
			_, err := standings.NewGenerator(reg, []string{"wins", "charisma"}, nil)
			Convey("Then the error is a configuration error naming the metric", func() {
				So(errors.Is(err, standings.ErrConfiguration), ShouldBeTrue)
				So(errors.Is(err, metric.ErrUnknownMetric), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "charisma")
			})
		})

		Convey("When an extra metric repeats a precedence metric", func() {
			_, err := standings.NewGenerator(reg, []string{"wins"}, []string{"wins"})
			Convey("Then a configuration error is returned", func() {
				So(errors.Is(err, standings.ErrConfiguration), ShouldBeTrue)
			})
		})

		Convey("When dimensions are malformed", func() {
			_, errEmpty := standings.NewGenerator(reg, []string{"wins"}, nil,
				standings.WithDimensions(standings.Dimension{}))
			_, errDup := standings.NewGenerator(reg, []string{"wins"}, nil,
				standings.WithDimensions(standings.Overall(), standings.Overall()))
			_, errNone := standings.NewGenerator(reg, []string{"wins"}, nil, standings.WithDimensions())

			Convey("Then each is a configuration error", func() {
				var cfgErr *standings.ConfigurationError
				So(errors.As(errEmpty, &cfgErr), ShouldBeTrue)
				So(cfgErr.Field, ShouldEqual, "dimensions")
				So(errors.Is(errDup, standings.ErrConfiguration), ShouldBeTrue)
				So(errors.Is(errNone, standings.ErrConfiguration), ShouldBeTrue)
			})
		})

		Convey("When precision is out of range", func() {
			_, err := standings.NewGenerator(reg, []string{"wins"}, nil, standings.WithPrecision(13))
			Convey("Then a configuration error is returned", func() {
				So(errors.Is(err, standings.ErrConfiguration), ShouldBeTrue)
			})
		})

		Convey("When a team-only metric is used for speakers", func() {
			gen, err := standings.NewGenerator(reg, []string{"wins"}, nil)
			So(err, ShouldBeNil)
			_, err = gen.Generate(entities(speaker("S1", speech(1, 70))))
			Convey("Then the generation is rejected before computing", func() {
				So(errors.Is(err, standings.ErrConfiguration), ShouldBeTrue)
			})
		})

		Convey("When two entities share an id", func() {
			gen, err := standings.NewGenerator(reg, []string{"wins"}, nil)
			So(err, ShouldBeNil)
			_, err = gen.Generate(entities(team("A"), team("A")))
			Convey("Then a configuration error is returned", func() {
				So(errors.Is(err, standings.ErrConfiguration), ShouldBeTrue)
			})
		})

		Convey("When the configuration is valid", func() {
			gen, err := standings.NewGenerator(reg, []string{"wins", "speaks_sum"}, []string{"margin_sum"})
			So(err, ShouldBeNil)
			Convey("Then the resolved names are exposed in order", func() {
				So(gen.Precedence(), ShouldResemble, []string{"wins", "speaks_sum"})
				So(gen.Extra(), ShouldResemble, []string{"margin_sum"})
				So(gen.Dimensions(), ShouldResemble, []string{standings.DefaultDimension})
			})

			Convey("And empty input yields empty output", func() {
				records, err := gen.Generate(nil)
				So(err, ShouldBeNil)
				So(records, ShouldNotBeNil)
				So(records, ShouldBeEmpty)
			})
		})
	})
}

func TestGenerator_Dimensions(t *testing.T) {
	Convey("Given teams split across divisions", t, func() {
		division := func(e model.Entity) string {
			if tm, ok := model.Underlying(e).(*model.Team); ok {
				return tm.Division
			}
			return ""
		}
		gen, err := standings.NewGenerator(metric.NewRegistry(), []string{"wins"}, nil,
			standings.WithDimensions(standings.Overall(), standings.Dimension{Name: "division", Group: division}))
		So(err, ShouldBeNil)

		a := &model.Team{TeamID: "A", Division: "north", Records: []model.ScoreRecord{win(1, 1, 1), win(2, 1, 1)}}
		b := &model.Team{TeamID: "B", Division: "south", Records: []model.ScoreRecord{win(1, 1, 1), loss(2, -1, 1)}}
		c := &model.Team{TeamID: "C", Division: "north", Records: []model.ScoreRecord{loss(1, -1, 1), win(2, 1, 1)}}
		d := &model.Team{TeamID: "D", Records: []model.ScoreRecord{loss(1, -1, 1), loss(2, -1, 1)}}

		records, err := gen.Generate(entities(a, b, c, d))
		So(err, ShouldBeNil)

		Convey("Then overall and division ranks are computed independently", func() {
			So(ids(records), ShouldResemble, []string{"A", "B", "C", "D"})
			So(positions(records, "rank"), ShouldResemble, []int{1, 2, 2, 4})
			So(positions(records, "division"), ShouldResemble, []int{1, 1, 2, 0})
		})

		Convey("And entities with no division are unranked in that dimension", func() {
			So(records[3].Rank("division").Ranked(), ShouldBeFalse)
			So(records[3].Rank("rank").Ranked(), ShouldBeTrue)
		})
	})
}

func TestGenerator_Precision(t *testing.T) {
	Convey("Given values that differ only by floating point noise", t, func() {
		// 0.1 + 0.2 is 0.30000000000000004.
		a := speaker("A", speech(1, 0.1), speech(2, 0.2))
		b := speaker("B", speech(1, 0.3))
		c := speaker("C", speech(1, 0.29))

		Convey("When compared at the default precision", func() {
			gen, err := standings.NewGenerator(metric.NewRegistry(), []string{"speaks_sum"}, nil)
			So(err, ShouldBeNil)
			records, err := gen.Generate(entities(a, b, c))
			So(err, ShouldBeNil)

			Convey("Then they tie", func() {
				So(ids(records), ShouldResemble, []string{"A", "B", "C"})
				So(positions(records, standings.DefaultDimension), ShouldResemble, []int{1, 1, 3})
			})
		})

		Convey("When compared at one decimal place", func() {
			gen, err := standings.NewGenerator(metric.NewRegistry(), []string{"speaks_sum"}, nil, standings.WithPrecision(1))
			So(err, ShouldBeNil)
			records, err := gen.Generate(entities(a, b, c))
			So(err, ShouldBeNil)

			Convey("Then coarser differences tie too", func() {
				So(positions(records, standings.DefaultDimension), ShouldResemble, []int{1, 1, 1})
			})
		})
	})
}

func TestGenerator_Direction(t *testing.T) {
	Convey("Given a lower-is-better metric", t, func() {
		gen, err := standings.NewGenerator(metric.NewRegistry(), []string{"speaks_stddev"}, nil)
		So(err, ShouldBeNil)
		steady := speaker("steady", speech(1, 75), speech(2, 75))
		erratic := speaker("erratic", speech(1, 70), speech(2, 80))

		Convey("Then smaller values rank first", func() {
			records, err := gen.Generate(entities(erratic, steady))
			So(err, ShouldBeNil)
			So(ids(records), ShouldResemble, []string{"steady", "erratic"})
			So(records[1].Metric("speaks_stddev").Number, ShouldEqual, 5)
		})
	})
}

func TestGenerator_DrawStrength(t *testing.T) {
	Convey("Given teams that met each other", t, func() {
		a := team("A", model.ScoreRecord{Round: 1, Confirmed: true, Opponent: "B", Points: 1},
			model.ScoreRecord{Round: 2, Confirmed: true, Opponent: "C", Points: 1})
		b := team("B", model.ScoreRecord{Round: 1, Confirmed: true, Opponent: "A"},
			model.ScoreRecord{Round: 2, Confirmed: true, Opponent: "D", Points: 1})
		c := team("C", model.ScoreRecord{Round: 2, Confirmed: true, Opponent: "A"})
		d := team("D", model.ScoreRecord{Round: 2, Confirmed: true, Opponent: "B"})

		gen, err := standings.NewGenerator(metric.NewRegistry(), []string{"points", "draw_strength"}, nil)
		So(err, ShouldBeNil)
		records, err := gen.Generate(entities(a, b, d, c))
		So(err, ShouldBeNil)

		Convey("Then draw strength sums the opponents' points", func() {
			byID := map[string]standings.Record{}
			for _, r := range records {
				byID[r.ID] = r
			}
			So(byID["A"].Metric("draw_strength").Number, ShouldEqual, 1)
			So(byID["B"].Metric("draw_strength").Number, ShouldEqual, 2)
			So(byID["C"].Metric("draw_strength").Number, ShouldEqual, 2)
			So(byID["D"].Metric("draw_strength").Number, ShouldEqual, 1)
		})

		Convey("And it breaks the tie on points", func() {
			So(ids(records), ShouldResemble, []string{"A", "B", "C", "D"})
			So(positions(records, standings.DefaultDimension), ShouldResemble, []int{1, 2, 3, 4})
		})
	})
}

func TestGenerator_DoesNotMutateInput(t *testing.T) {
	Convey("Given an input slice", t, func() {
		gen, err := standings.NewGenerator(metric.NewRegistry(), []string{"wins"}, nil)
		So(err, ShouldBeNil)
		in := entities(team("A"), team("B", win(1, 1, 1)))

		Convey("Then generating leaves it untouched", func() {
			_, err := gen.Generate(in)
			So(err, ShouldBeNil)
			So(in[0].ID(), ShouldEqual, "A")
			So(in[1].ID(), ShouldEqual, "B")
		})
	})
}
