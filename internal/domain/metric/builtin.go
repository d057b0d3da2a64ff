package metric

import (
	"math"

	"github.com/okian/standings/internal/domain/model"
)

var (
	teamOnly    = []model.Kind{model.KindTeam}
	speakerOnly = []model.Kind{model.KindSpeaker}
)

func builtins() []Metric {
	return []Metric{
		// Team results.
		{Name: "points", Description: "Points", Kinds: teamOnly, Compute: sumOf(all, points)},
		{Name: "wins", Description: "Wins", Kinds: teamOnly, Compute: countOf(won)},
		{Name: "margin_sum", Description: "Sum of margins", Kinds: teamOnly, Compute: sumOf(all, margin)},
		{Name: "margin_avg", Description: "Average margin", Kinds: teamOnly, RequiresData: true, Compute: meanOf(all, margin)},
		{Name: "draw_strength", Description: "Draw strength", Kinds: teamOnly, Compute: drawStrength},
		{Name: "debates_count", Description: "Debates", Kinds: teamOnly, Compute: countOf(all)},

		// Speaks, for teams (team totals) and speakers (substantive speeches).
		{Name: "speaks_sum", Description: "Total speaker score", Compute: sumOf(substantive, score)},
		{Name: "speaks_avg", Description: "Average speaker score", RequiresData: true, Compute: meanOf(substantive, score)},
		{Name: "speaks_stddev", Description: "Speaker score standard deviation", Direction: LowerIsBetter, RequiresData: true, Compute: stddevOf(substantive, score)},

		// Speaker participation and replies.
		{Name: "speeches_count", Description: "Number of speeches", Kinds: speakerOnly, Compute: countOf(substantive)},
		{Name: "replies_sum", Description: "Total reply score", Kinds: speakerOnly, Compute: sumOf(reply, score)},
		{Name: "replies_avg", Description: "Average reply score", Kinds: speakerOnly, RequiresData: true, Compute: meanOf(reply, score)},
		{Name: "replies_stddev", Description: "Reply score standard deviation", Kinds: speakerOnly, Direction: LowerIsBetter, RequiresData: true, Compute: stddevOf(reply, score)},
		{Name: "replies_count", Description: "Number of replies", Kinds: speakerOnly, Compute: countOf(reply)},
	}
}

type (
	selector  func(model.ScoreRecord) bool
	extractor func(model.ScoreRecord) float64
)

func all(model.ScoreRecord) bool           { return true }
func won(r model.ScoreRecord) bool         { return r.Won() }
func substantive(r model.ScoreRecord) bool { return r.Position == model.PositionSubstantive }
func reply(r model.ScoreRecord) bool       { return r.Position == model.PositionReply }

func points(r model.ScoreRecord) float64 { return float64(r.Points) }
func margin(r model.ScoreRecord) float64 { return r.Margin }
func score(r model.ScoreRecord) float64  { return r.Score }

func pick(records []model.ScoreRecord, keep selector, get extractor) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, get(r))
		}
	}
	return out
}

func sumOf(keep selector, get extractor) Func {
	return func(in Input) Value {
		return Of(sum(pick(in.Records, keep, get)))
	}
}

func countOf(keep selector) Func {
	return func(in Input) Value {
		n := 0
		for _, r := range in.Records {
			if keep(r) {
				n++
			}
		}
		return Of(float64(n))
	}
}

func meanOf(keep selector, get extractor) Func {
	return func(in Input) Value {
		xs := pick(in.Records, keep, get)
		if len(xs) == 0 {
			return NoData
		}
		return Of(sum(xs) / float64(len(xs)))
	}
}

func stddevOf(keep selector, get extractor) Func {
	return func(in Input) Value {
		xs := pick(in.Records, keep, get)
		if len(xs) == 0 {
			return NoData
		}
		return Of(populationStdDev(xs))
	}
}

// drawStrength sums the points earned by every opponent the team has faced.
func drawStrength(in Input) Value {
	total := 0.0
	for _, r := range in.Records {
		if r.Opponent == "" {
			continue
		}
		total += sum(pick(in.Peers[r.Opponent], all, points))
	}
	return Of(total)
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

func populationStdDev(xs []float64) float64 {
	mean := sum(xs) / float64(len(xs))
	acc := 0.0
	for _, x := range xs {
		d := x - mean
		acc += d * d
	}
	return math.Sqrt(acc / float64(len(xs)))
}
