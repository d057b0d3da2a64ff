package metric

import (
	"errors"
	"fmt"
)

// Sentinel kinds for metric errors. These allow errors.Is from callers.
var (
	ErrUnknownMetric = errors.New("unknown metric")
	ErrMissingData   = errors.New("missing data")
	ErrInvalidMetric = errors.New("invalid metric definition")
)

// MissingDataError reports a metric that has no meaningful value without
// underlying records being computed for an entity that has none.
type MissingDataError struct {
	Metric string
	Entity string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("metric %q has no data for entity %q", e.Metric, e.Entity)
}

// Unwrap lets errors.Is match ErrMissingData.
func (e *MissingDataError) Unwrap() error { return ErrMissingData }
