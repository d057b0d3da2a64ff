// Package metric defines named, pure computations over a competitor's
// confirmed score records and the registry used to look them up.
package metric

import (
	"slices"

	"github.com/okian/standings/internal/domain/model"
)

// Direction states which way a metric sorts.
type Direction int

const (
	// HigherIsBetter sorts descending.
	HigherIsBetter Direction = iota
	// LowerIsBetter sorts ascending.
	LowerIsBetter
)

// Peers gives metrics read access to every competitor's confirmed records,
// keyed by entity id. It is built once per generation from the bulk input.
type Peers map[string][]model.ScoreRecord

// NewPeers indexes the confirmed records of every entity.
func NewPeers(entities []model.Entity) Peers {
	p := make(Peers, len(entities))
	for _, e := range entities {
		p[e.ID()] = model.ConfirmedScores(e)
	}
	return p
}

// Input is what a metric function sees for one entity.
type Input struct {
	Entity model.Entity
	// Records holds only the entity's confirmed records.
	Records []model.ScoreRecord
	Peers   Peers
}

// Func computes a value. It must be deterministic and free of side effects,
// returning NoData when there is nothing to compute from.
type Func func(in Input) Value

// Metric describes one named metric.
type Metric struct {
	Name        string
	Description string
	Direction   Direction
	// RequiresData marks metrics with no meaningful default; computing them
	// over zero records is a MissingDataError rather than a zero.
	RequiresData bool
	// Kinds restricts the metric to some entity kinds. Empty means any kind.
	Kinds   []model.Kind
	Compute Func
}

// Supports reports whether the metric applies to entities of kind k.
func (m Metric) Supports(k model.Kind) bool {
	return len(m.Kinds) == 0 || slices.Contains(m.Kinds, k)
}

// Evaluate runs the metric for one entity, enforcing RequiresData.
func (m Metric) Evaluate(in Input) (Value, error) {
	v := m.Compute(in)
	if !v.Valid && m.RequiresData {
		return NoData, &MissingDataError{Metric: m.Name, Entity: in.Entity.ID()}
	}
	return v, nil
}
