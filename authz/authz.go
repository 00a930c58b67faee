// Package authz holds the authorization gate: pure predicates over a
// session snapshot. Nothing here performs I/O or mutates state, so
// guards and page logic can be unit-tested without a live controller.
package authz

import (
	"github.com/jrsteele09/go-booking-client/principal"
	"github.com/jrsteele09/go-booking-client/session"
)

// Reason explains a denied decision.
type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
)

// Decision is the result of evaluating a session against a
// requirement.
type Decision struct {
	Allow  bool
	Reason Reason // set only when Allow is false
}

// IsAuthenticated reports whether the session holds a principal.
func IsAuthenticated(sess session.Session) bool {
	return sess.Principal != nil
}

// HasRole reports whether the session is authenticated with the given
// role.
func HasRole(sess session.Session, role principal.RoleType) bool {
	return sess.Principal != nil && sess.Principal.Role == role
}

// Decide evaluates the session against an optional role requirement.
// An empty requiredRole asks only for authentication.
func Decide(sess session.Session, requiredRole principal.RoleType) Decision {
	if !IsAuthenticated(sess) {
		return Decision{Reason: ReasonUnauthenticated}
	}
	if requiredRole != "" && !HasRole(sess, requiredRole) {
		return Decision{Reason: ReasonForbidden}
	}
	return Decision{Allow: true}
}
