package standings

import (
	"encoding/json"
	"strconv"

	"github.com/okian/standings/internal/domain/metric"
	"github.com/okian/standings/internal/domain/model"
)

// Rank is a position in one ranking dimension. The zero Rank is Unranked.
type Rank struct {
	Position int
	// Tied is set when another entity shares the same position.
	Tied bool
}

// Unranked marks an entity that is shown but not given a number.
var Unranked = Rank{}

// Ranked reports whether the rank carries a number.
func (r Rank) Ranked() bool { return r.Position > 0 }

func (r Rank) String() string {
	switch {
	case !r.Ranked():
		return "-"
	case r.Tied:
		return strconv.Itoa(r.Position) + "="
	default:
		return strconv.Itoa(r.Position)
	}
}

// MarshalJSON encodes an unranked entity as null.
func (r Rank) MarshalJSON() ([]byte, error) {
	if !r.Ranked() {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Position int  `json:"position"`
		Tied     bool `json:"tied"`
	}{r.Position, r.Tied})
}

// Record is one row of the standings. Consumers must treat it as read-only.
type Record struct {
	Entity       model.Entity            `json:"-"`
	ID           string                  `json:"id"`
	Kind         model.Kind              `json:"kind"`
	Metrics      map[string]metric.Value `json:"metrics"`
	Ranks        map[string]Rank         `json:"ranks"`
	RoundResults []Snapshot              `json:"round_results"`
	ResultsIn    bool                    `json:"results_in"`

	key     sortKey
	missing error
}

// Metric returns a computed value, or NoData if the metric was not computed.
func (r Record) Metric(name string) metric.Value { return r.Metrics[name] }

// Rank returns the rank in a dimension, or Unranked.
func (r Record) Rank(dimension string) Rank { return r.Ranks[dimension] }
