package domain

import "errors"

var (
	// ErrMissingCredentials signals that a required provider API key is
	// absent. Fatal for the request that needed it.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrSearchUnavailable signals that the shopping-search upstream
	// errored or timed out. Distinct from an empty result set.
	ErrSearchUnavailable = errors.New("search unavailable")
)
