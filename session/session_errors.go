package session

import "errors"

var (
	// ErrAuthFailed reports a login the service rejected. The session
	// state is unchanged.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRefreshFailed reports a refresh that was rejected, failed to
	// reach the service, or returned an undecodable token. The session
	// is logged out.
	ErrRefreshFailed = errors.New("refresh failed")

	// ErrStaleRefresh reports a refresh that completed after the
	// session it belonged to was replaced or logged out. Its result
	// was discarded.
	ErrStaleRefresh = errors.New("refresh completed on a stale session")
)
