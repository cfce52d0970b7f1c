package service

import "errors"

var (
	// ErrRateLimited indicates the caller exceeded allowed check attempts.
	ErrRateLimited = errors.New("service: rate limited")
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("service: not found")
)
