package config

import "time"

type SessionConfig interface {
	GetRefreshInterval() time.Duration
	GetAuthScheme() string
	GetStorageKey() string
	GetLoginPath() string
	GetUnauthorizedPath() string
	GetRedirectDelay() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

// GetRefreshInterval is the silent-renewal period. Must stay shorter
// than the shortest access-token lifetime the issuer hands out.
func (Session) GetRefreshInterval() time.Duration {
	return 4 * time.Minute
}

func (Session) GetAuthScheme() string {
	return "Bearer"
}

// GetStorageKey is the key the credential pair persists under. Matches
// the key the web client has always used, so the two can share a
// profile folder.
func (Session) GetStorageKey() string {
	return "authTokens"
}

func (Session) GetLoginPath() string {
	return "/login"
}

func (Session) GetUnauthorizedPath() string {
	return "/unauthorized"
}

// GetRedirectDelay keeps a denial notice visible before navigating
// away.
func (Session) GetRedirectDelay() time.Duration {
	return 1 * time.Second
}
