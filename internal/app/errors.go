package service

import "errors"

// Sentinel kinds for service errors. These allow errors.Is from callers.
var (
	ErrRoundNotFound   = errors.New("round not found")
	ErrUnknownCategory = errors.New("unknown speaker category")
	ErrNotStarted      = errors.New("service not started")
)
