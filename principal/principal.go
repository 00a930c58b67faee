package principal

import "time"

// RoleType is the access level carried in the access token's claims.
type RoleType string

const (
	RoleUser  RoleType = "user"
	RoleAdmin RoleType = "admin"
)

// Principal is the identity derived from an access token's payload.
// It is never persisted; it is re-derived from the credential pair on
// every load, and replaced wholesale whenever the pair changes.
type Principal struct {
	Subject   string    // Unique user ID from the token's subject claim
	Role      RoleType  // Access level ("user" or "admin")
	IssuedAt  time.Time // When the token was minted
	ExpiresAt time.Time // Informational only - never used to reject a principal
	Username  string    // Display name, patchable without re-authentication
}

// WithUsername returns a copy of the principal with the display name
// replaced. Principals are treated as immutable, so display updates
// mint a new value rather than mutating in place.
func (p Principal) WithUsername(username string) Principal {
	p.Username = username
	return p
}
