package standings

import (
	"errors"
	"fmt"

	"github.com/okian/standings/internal/domain/metric"
)

// Sentinel kinds for standings errors. These allow errors.Is from callers.
var (
	ErrConfiguration = errors.New("invalid standings configuration")
	ErrMissingData   = metric.ErrMissingData
)

// ConfigurationError reports a problem with how a generation was configured.
// It is raised before any metric is computed and is never worth retrying.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Field, e.Reason)
}

// Unwrap exposes both ErrConfiguration and the underlying cause.
func (e *ConfigurationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConfiguration, e.Err}
	}
	return []error{ErrConfiguration}
}

func configError(field, reason string, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason, Err: err}
}
