// Package guard intercepts navigation to protected views. One
// parameterized guard covers both the member-only and the admin-only
// cases; they differ only in the requirement they evaluate.
package guard

import (
	"net/url"
	"sync"
	"time"

	"github.com/jrsteele09/go-booking-client/authz"
	"github.com/jrsteele09/go-booking-client/notify"
	"github.com/jrsteele09/go-booking-client/principal"
	"github.com/jrsteele09/go-booking-client/session"
	"github.com/pkg/errors"
)

// Navigator performs client-side navigation.
type Navigator interface {
	Redirect(path string)
}

// Requirement is what a guarded view demands of the session.
type Requirement struct {
	role principal.RoleType
}

// RequireAuthenticated admits any signed-in principal.
func RequireAuthenticated() Requirement {
	return Requirement{}
}

// RequireRole admits only principals holding the given role.
func RequireRole(role principal.RoleType) Requirement {
	return Requirement{role: role}
}

// Outcome is a guard's answer for one render of a guarded view.
type Outcome int

const (
	// OutcomePending means the session is not ready yet: render
	// nothing and ask again on the next change. Redirecting here
	// would bounce a visitor whose persisted session is still being
	// confirmed.
	OutcomePending Outcome = iota

	// OutcomeAllow means the guarded content may render.
	OutcomeAllow

	// OutcomeDenied means the visitor was notified and a redirect is
	// scheduled.
	OutcomeDenied
)

const (
	DefaultLoginPath        = "/login"
	DefaultUnauthorizedPath = "/unauthorized"

	// DefaultRedirectDelay keeps the notice on screen before the
	// redirect fires. Cosmetic only - the decision itself is made
	// immediately.
	DefaultRedirectDelay = time.Second
)

// Guard evaluates a requirement against session snapshots and drives
// the notify-then-redirect flow on denial.
type Guard struct {
	requirement      Requirement
	notifier         notify.Notifier
	navigator        Navigator
	loginPath        string
	unauthorizedPath string
	delay            time.Duration

	mu      sync.Mutex
	pending *time.Timer
}

// Option defines a function type to modify the Guard instance.
type Option func(*Guard)

// WithLoginPath overrides the destination for unauthenticated visitors.
func WithLoginPath(path string) Option {
	return func(g *Guard) {
		g.loginPath = path
	}
}

// WithUnauthorizedPath overrides the destination for authenticated
// visitors holding the wrong role.
func WithUnauthorizedPath(path string) Option {
	return func(g *Guard) {
		g.unauthorizedPath = path
	}
}

// WithRedirectDelay overrides the cosmetic delay before redirecting.
func WithRedirectDelay(delay time.Duration) Option {
	return func(g *Guard) {
		g.delay = delay
	}
}

// New creates a guard for the given requirement.
func New(requirement Requirement, notifier notify.Notifier, navigator Navigator, options ...Option) (*Guard, error) {
	if notifier == nil {
		return nil, errors.New("[guard.New] notifier is required")
	}
	if navigator == nil {
		return nil, errors.New("[guard.New] navigator is required")
	}

	guard := &Guard{
		requirement:      requirement,
		notifier:         notifier,
		navigator:        navigator,
		loginPath:        DefaultLoginPath,
		unauthorizedPath: DefaultUnauthorizedPath,
		delay:            DefaultRedirectDelay,
	}

	for _, opt := range options {
		opt(guard)
	}

	return guard, nil
}

// Evaluate decides whether the guarded content may render for the
// given session snapshot. attemptedPath is carried on the login
// redirect so the visitor can be returned there after signing in.
//
// The two denial destinations are always distinct: unauthenticated
// visitors land on the login view, authenticated visitors with the
// wrong role on the unauthorized view.
func (g *Guard) Evaluate(sess session.Session, attemptedPath string) Outcome {
	if !sess.Ready {
		return OutcomePending
	}

	decision := authz.Decide(sess, g.requirement.role)
	if decision.Allow {
		g.Stop()
		return OutcomeAllow
	}

	switch decision.Reason {
	case authz.ReasonForbidden:
		g.notifier.Notify(notify.KindWarning, "Access denied: Admins only!")
		g.scheduleRedirect(g.unauthorizedPath)
	default:
		g.notifier.Notify(notify.KindError, "You're not authenticated!")
		g.scheduleRedirect(loginDestination(g.loginPath, attemptedPath))
	}
	return OutcomeDenied
}

// Stop cancels a pending redirect. Called on teardown, and whenever a
// later evaluation allows the content after all.
func (g *Guard) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		g.pending.Stop()
		g.pending = nil
	}
}

func (g *Guard) scheduleRedirect(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		g.pending.Stop()
	}
	g.pending = time.AfterFunc(g.delay, func() {
		g.navigator.Redirect(path)
	})
}

func loginDestination(loginPath, attemptedPath string) string {
	if attemptedPath == "" {
		return loginPath
	}
	return loginPath + "?next=" + url.QueryEscape(attemptedPath)
}
