package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrInvalidSnapshot = errors.New("invalid tournament snapshot")
	ErrLoadSnapshot    = errors.New("load tournament snapshot failed")
)
