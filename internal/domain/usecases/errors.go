package usecases

import "errors"

// Error taxonomy surfaced across the API boundary. Handlers map these to
// HTTP statuses; anything unrecognized is an internal fault.
var (
	// ErrInvalidInput means the caller-supplied message is empty or missing.
	ErrInvalidInput = errors.New("message cannot be empty")

	// ErrServiceNotReady means the session failed to initialize at startup
	// (missing credentials, unreachable index). Surfaced on every request
	// until restart.
	ErrServiceNotReady = errors.New("chatbot engine is not initialized")

	// ErrBackendUnavailable means a retrieval or generation call failed at
	// request time (network, quota, malformed upstream data).
	ErrBackendUnavailable = errors.New("generation backend unavailable")
)
