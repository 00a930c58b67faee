// Package session owns the credential pair and its lifecycle: login,
// logout, hydration from persisted state, and periodic silent renewal.
// The Controller is the sole mutator of the pair; everything else in
// the client observes it through Current and Subscribe.
package session

import (
	"context"

	"github.com/jrsteele09/go-booking-client/credential"
	"github.com/jrsteele09/go-booking-client/principal"
)

// API is the slice of the booking-service client the controller drives.
type API interface {
	// Login exchanges user credentials for a token pair.
	Login(ctx context.Context, username, password string) (*credential.Credential, error)

	// Refresh exchanges a refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*credential.Credential, error)
}

// Session is the externally observable state of a Controller.
//
// A non-nil Principal always comes with the Credential it was decoded
// from: the two fields are replaced together in every transition. The
// converse does not hold - during hydration the persisted credential is
// held without a principal until the initial refresh confirms it.
type Session struct {
	Principal  *principal.Principal
	Credential *credential.Credential

	// Ready is false only while the initial hydration attempt is in
	// progress. No routing decision may be made from a not-ready
	// session; see the guard package.
	Ready bool
}
