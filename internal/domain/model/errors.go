package model

import "errors"

// Sentinel kinds for model construction errors.
var (
	ErrDuplicateRound = errors.New("duplicate round sequence")
)
