// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// SnapshotPath points at a YAML tournament snapshot. Empty starts the
	// service with an empty tournament.
	SnapshotPath string `koanf:"snapshot_path"`

	// TeamPrecedence lists the metrics teams are ranked by, in order.
	TeamPrecedence []string `koanf:"team_precedence" validate:"min=1,dive,required"`

	// TeamExtraMetrics are shown alongside team standings but never rank.
	TeamExtraMetrics []string `koanf:"team_extra_metrics" validate:"dive,required"`

	// RankSpeakersBy is "average" or "total".
	RankSpeakersBy string `koanf:"rank_speakers_by" validate:"oneof=average total"`

	// StandingsMissedDebates is how many substantive speeches a speaker may
	// miss and still be ranked. Negative disables the requirement.
	StandingsMissedDebates int `koanf:"standings_missed_debates"`

	// RankPrecision is the number of decimals metric values are compared at.
	RankPrecision int `koanf:"rank_precision" validate:"min=0,max=12"`

	// HighlightsLimit caps each highlights list.
	HighlightsLimit int `koanf:"highlights_limit" validate:"min=1,max=1000"`

	// RateLimitRPS caps standings requests per second. Zero disables it.
	RateLimitRPS float64 `koanf:"rate_limit_rps" validate:"min=0"`

	// RateLimitBurst is the number of requests allowed above the rate.
	RateLimitBurst int `koanf:"rate_limit_burst" validate:"min=0"`

	// PublicTabReleased marks every result as in, as for a released tab.
	PublicTabReleased bool `koanf:"public_tab_released"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		TeamPrecedence:         []string{"wins", "speaks_sum"},
		TeamExtraMetrics:       []string{"margin_sum", "draw_strength"},
		RankSpeakersBy:         "average",
		StandingsMissedDebates: 1,
		RankPrecision:          6,
		HighlightsLimit:        10,
		RateLimitBurst:         20,
	}
}

var validate = validator.New()

// Validate checks field constraints. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
