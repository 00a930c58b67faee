package api

import "errors"

var (
	// ErrNetwork reports a request that never reached the service.
	ErrNetwork = errors.New("booking service unreachable")

	// ErrRejected reports a non-success status with no more specific
	// classification.
	ErrRejected = errors.New("request rejected")

	// ErrUnauthorized reports a 401/403 from a protected endpoint.
	// Callers holding a session should treat it by logging out.
	ErrUnauthorized = errors.New("not authorized")
)
