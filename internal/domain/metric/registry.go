package metric

import (
	"fmt"
	"slices"
	"sync"

	"github.com/okian/standings/internal/domain/model"
)

// Registry maps metric names to metric definitions. Lookups are safe for
// concurrent use, so one registry can serve parallel generations.
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]Metric
}

// NewRegistry creates a registry with the built-in team and speaker metrics.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, m := range builtins() {
		r.metrics[m.Name] = m
	}
	return r
}

// NewEmptyRegistry creates a registry with no metrics registered.
func NewEmptyRegistry() *Registry {
	return &Registry{metrics: make(map[string]Metric)}
}

// Register adds or replaces a metric.
func (r *Registry) Register(m Metric) error {
	if m.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidMetric)
	}
	if m.Compute == nil {
		return fmt.Errorf("%w: %s has no compute function", ErrInvalidMetric, m.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics[m.Name] = m
	return nil
}

// Lookup returns the metric registered under name.
func (r *Registry) Lookup(name string) (Metric, error) {
	r.mu.RLock()
	m, ok := r.metrics[name]
	r.mu.RUnlock()
	if !ok {
		return Metric{}, fmt.Errorf("%w: %s", ErrUnknownMetric, name)
	}
	return m, nil
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Compute evaluates one metric for one entity over the given records. Only
// confirmed records are considered, whatever the caller passes in.
func (r *Registry) Compute(name string, e model.Entity, records []model.ScoreRecord, peers Peers) (Value, error) {
	m, err := r.Lookup(name)
	if err != nil {
		return NoData, err
	}
	confirmed := make([]model.ScoreRecord, 0, len(records))
	for _, rec := range records {
		if rec.Confirmed {
			confirmed = append(confirmed, rec)
		}
	}
	return m.Evaluate(Input{Entity: e, Records: confirmed, Peers: peers})
}
