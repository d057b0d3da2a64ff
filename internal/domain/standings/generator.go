// Package standings ranks competitors by an ordered list of metrics using
// standard competition ranking, and decorates the result with a
// round-by-round history.
//
// A Generator is configured once and is safe for concurrent use: Generate
// holds no state between calls and never mutates its inputs. All records
// must be loaded by the caller up front; nothing is fetched while sorting.
package standings

import (
	"fmt"
	"math"
	"slices"

	"github.com/okian/standings/internal/domain/metric"
	"github.com/okian/standings/internal/domain/model"
)

// Generator produces ranked standings.
type Generator struct {
	precedence []metric.Metric
	extra      []metric.Metric
	dimensions []Dimension
	include    Filter
	eligible   Filter
	precision  int
	scale      float64
}

// NewGenerator resolves metric names against the registry and validates the
// configuration. Every problem is reported as a *ConfigurationError.
func NewGenerator(registry *metric.Registry, precedence, extra []string, opts ...Option) (*Generator, error) {
	g := &Generator{
		dimensions: []Dimension{Overall()},
		precision:  defaultPrecision,
	}
	for _, opt := range opts {
		opt(g)
	}

	if registry == nil {
		return nil, configError("registry", "metric registry is required", nil)
	}
	if len(precedence) == 0 {
		return nil, configError("precedence", "at least one precedence metric is required", nil)
	}
	seen := make(map[string]string, len(precedence)+len(extra))
	resolve := func(field string, names []string) ([]metric.Metric, error) {
		out := make([]metric.Metric, 0, len(names))
		for _, name := range names {
			if prev, dup := seen[name]; dup {
				return nil, configError(field, fmt.Sprintf("metric %q already listed in %s", name, prev), nil)
			}
			seen[name] = field
			m, err := registry.Lookup(name)
			if err != nil {
				return nil, configError(field, err.Error(), err)
			}
			out = append(out, m)
		}
		return out, nil
	}
	var err error
	if g.precedence, err = resolve("precedence", precedence); err != nil {
		return nil, err
	}
	if g.extra, err = resolve("extra", extra); err != nil {
		return nil, err
	}

	if len(g.dimensions) == 0 {
		return nil, configError("dimensions", "at least one ranking dimension is required", nil)
	}
	names := make(map[string]bool, len(g.dimensions))
	for _, d := range g.dimensions {
		if d.Name == "" {
			return nil, configError("dimensions", "dimension name cannot be empty", nil)
		}
		if names[d.Name] {
			return nil, configError("dimensions", fmt.Sprintf("duplicate dimension %q", d.Name), nil)
		}
		names[d.Name] = true
	}

	if g.precision < 0 || g.precision > maxPrecision {
		return nil, configError("precision", fmt.Sprintf("must be between 0 and %d", maxPrecision), nil)
	}
	g.scale = math.Pow10(g.precision)
	return g, nil
}

// Precedence returns the precedence metric names in order.
func (g *Generator) Precedence() []string { return metricNames(g.precedence) }

// Extra returns the informational metric names in order.
func (g *Generator) Extra() []string { return metricNames(g.extra) }

// Dimensions returns the ranking dimension names in order.
func (g *Generator) Dimensions() []string {
	out := make([]string, len(g.dimensions))
	for i, d := range g.dimensions {
		out[i] = d.Name
	}
	return out
}

// Generate computes, filters, sorts and ranks the entities. Entities with
// identical precedence values keep their input order. Any error aborts the
// whole call; no partial standings are returned.
func (g *Generator) Generate(entities []model.Entity) ([]Record, error) {
	if len(entities) == 0 {
		return []Record{}, nil
	}
	if err := g.validateEntities(entities); err != nil {
		return nil, err
	}

	peers := metric.NewPeers(entities)
	records := make([]Record, 0, len(entities))
	for _, e := range entities {
		r := g.compute(e, peers)
		if !g.include.accepts(r) {
			continue
		}
		if r.missing != nil {
			return nil, r.missing
		}
		records = append(records, r)
	}

	slices.SortStableFunc(records, func(a, b Record) int { return compareKeys(a.key, b.key) })

	for _, d := range g.dimensions {
		ranks := AssignRanks(records, g.eligible, d.Group)
		for i := range records {
			records[i].Ranks[d.Name] = ranks[records[i].ID]
		}
	}
	return records, nil
}

func (g *Generator) validateEntities(entities []model.Entity) error {
	ids := make(map[string]bool, len(entities))
	kinds := make(map[model.Kind]bool)
	for _, e := range entities {
		if e == nil {
			return configError("entities", "nil entity", nil)
		}
		if ids[e.ID()] {
			return configError("entities", fmt.Sprintf("duplicate entity id %q", e.ID()), nil)
		}
		ids[e.ID()] = true
		kinds[e.Kind()] = true
	}
	for k := range kinds {
		for _, m := range slices.Concat(g.precedence, g.extra) {
			if !m.Supports(k) {
				return configError("metrics", fmt.Sprintf("metric %q does not apply to %s entities", m.Name, k), nil)
			}
		}
	}
	return nil
}

// compute builds a fresh record for one entity. A missing value for a
// precedence metric is held on the record so that entities dropped by the
// inclusion filter cannot abort the generation.
func (g *Generator) compute(e model.Entity, peers metric.Peers) Record {
	in := metric.Input{Entity: e, Records: model.ConfirmedScores(e), Peers: peers}
	r := Record{
		Entity:       e,
		ID:           e.ID(),
		Kind:         e.Kind(),
		Metrics:      make(map[string]metric.Value, len(g.precedence)+len(g.extra)),
		Ranks:        make(map[string]Rank, len(g.dimensions)),
		RoundResults: []Snapshot{},
		ResultsIn:    true,
		key:          make(sortKey, len(g.precedence)),
	}
	for i, m := range g.precedence {
		v, err := m.Evaluate(in)
		if err != nil && r.missing == nil {
			r.missing = err
		}
		r.Metrics[m.Name] = v
		r.key[i] = newKeyPart(v, m.Direction, g.scale)
	}
	for _, m := range g.extra {
		r.Metrics[m.Name] = m.Compute(in)
	}
	return r
}

func metricNames(ms []metric.Metric) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}
