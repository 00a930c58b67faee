package guard_test

import (
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-booking-client/credential"
	"github.com/jrsteele09/go-booking-client/guard"
	"github.com/jrsteele09/go-booking-client/notify"
	"github.com/jrsteele09/go-booking-client/notify/notifyfakes"
	"github.com/jrsteele09/go-booking-client/principal"
	"github.com/jrsteele09/go-booking-client/session"
	"github.com/stretchr/testify/require"
)

const testDelay = 50 * time.Millisecond

type fakeNavigator struct {
	lock  sync.Mutex
	paths []string
}

func (fn *fakeNavigator) Redirect(path string) {
	fn.lock.Lock()
	defer fn.lock.Unlock()
	fn.paths = append(fn.paths, path)
}

func (fn *fakeNavigator) Paths() []string {
	fn.lock.Lock()
	defer fn.lock.Unlock()
	out := make([]string, len(fn.paths))
	copy(out, fn.paths)
	return out
}

func notReadySession() session.Session {
	return session.Session{}
}

func anonymousSession() session.Session {
	return session.Session{Ready: true}
}

func roleSession(role principal.RoleType) session.Session {
	return session.Session{
		Principal:  &principal.Principal{Subject: "42", Role: role},
		Credential: &credential.Credential{Access: "a1", Refresh: "r1"},
		Ready:      true,
	}
}

func newGuard(t *testing.T, requirement guard.Requirement) (*guard.Guard, *notifyfakes.FakeNotifier, *fakeNavigator) {
	t.Helper()

	notifier := notifyfakes.NewFakeNotifier()
	navigator := &fakeNavigator{}
	g, err := guard.New(requirement, notifier, navigator, guard.WithRedirectDelay(testDelay))
	require.NoError(t, err)
	t.Cleanup(g.Stop)
	return g, notifier, navigator
}

func TestPrivateGuard(t *testing.T) {
	t.Run("renders nothing while the session is not ready", func(t *testing.T) {
		g, notifier, navigator := newGuard(t, guard.RequireAuthenticated())

		require.Equal(t, guard.OutcomePending, g.Evaluate(notReadySession(), "/profile"))

		time.Sleep(3 * testDelay)
		require.Empty(t, notifier.Notifications())
		require.Empty(t, navigator.Paths())
	})

	t.Run("allows any authenticated principal", func(t *testing.T) {
		g, notifier, navigator := newGuard(t, guard.RequireAuthenticated())

		require.Equal(t, guard.OutcomeAllow, g.Evaluate(roleSession(principal.RoleUser), "/profile"))
		require.Empty(t, notifier.Notifications())
		require.Empty(t, navigator.Paths())
	})

	t.Run("redirects anonymous visitors to login with the attempted path", func(t *testing.T) {
		g, notifier, navigator := newGuard(t, guard.RequireAuthenticated())

		require.Equal(t, guard.OutcomeDenied, g.Evaluate(anonymousSession(), "/profile"))

		notifications := notifier.Notifications()
		require.Len(t, notifications, 1)
		require.Equal(t, notify.KindError, notifications[0].Kind)

		// The decision is immediate; only the navigation waits.
		require.Empty(t, navigator.Paths())
		require.Eventually(t, func() bool {
			return len(navigator.Paths()) == 1
		}, time.Second, time.Millisecond)
		require.Equal(t, "/login?next=%2Fprofile", navigator.Paths()[0])
	})

	t.Run("stop cancels a pending redirect", func(t *testing.T) {
		g, _, navigator := newGuard(t, guard.RequireAuthenticated())

		require.Equal(t, guard.OutcomeDenied, g.Evaluate(anonymousSession(), "/profile"))
		g.Stop()

		time.Sleep(3 * testDelay)
		require.Empty(t, navigator.Paths())
	})

	t.Run("a later allowed evaluation cancels the redirect", func(t *testing.T) {
		g, _, navigator := newGuard(t, guard.RequireAuthenticated())

		require.Equal(t, guard.OutcomeDenied, g.Evaluate(anonymousSession(), "/profile"))
		require.Equal(t, guard.OutcomeAllow, g.Evaluate(roleSession(principal.RoleUser), "/profile"))

		time.Sleep(3 * testDelay)
		require.Empty(t, navigator.Paths())
	})
}

func TestAdminGuard(t *testing.T) {
	t.Run("anonymous visitors go to login", func(t *testing.T) {
		g, notifier, navigator := newGuard(t, guard.RequireRole(principal.RoleAdmin))

		require.Equal(t, guard.OutcomeDenied, g.Evaluate(anonymousSession(), "/admin"))

		notifications := notifier.Notifications()
		require.Len(t, notifications, 1)
		require.Equal(t, notify.KindError, notifications[0].Kind)

		require.Eventually(t, func() bool {
			return len(navigator.Paths()) == 1
		}, time.Second, time.Millisecond)
		require.Equal(t, "/login?next=%2Fadmin", navigator.Paths()[0])
	})

	t.Run("authenticated non-admins go to the unauthorized view", func(t *testing.T) {
		g, notifier, navigator := newGuard(t, guard.RequireRole(principal.RoleAdmin))

		require.Equal(t, guard.OutcomeDenied, g.Evaluate(roleSession(principal.RoleUser), "/admin"))

		notifications := notifier.Notifications()
		require.Len(t, notifications, 1)
		require.Equal(t, notify.KindWarning, notifications[0].Kind)

		require.Eventually(t, func() bool {
			return len(navigator.Paths()) == 1
		}, time.Second, time.Millisecond)

		// The destination tells the visitor why they were turned
		// away, so it must differ from the unauthenticated one.
		require.Equal(t, guard.DefaultUnauthorizedPath, navigator.Paths()[0])
		require.NotEqual(t, guard.DefaultLoginPath, navigator.Paths()[0])
	})

	t.Run("admins render the guarded content", func(t *testing.T) {
		g, notifier, navigator := newGuard(t, guard.RequireRole(principal.RoleAdmin))

		require.Equal(t, guard.OutcomeAllow, g.Evaluate(roleSession(principal.RoleAdmin), "/admin"))
		require.Empty(t, notifier.Notifications())
		require.Empty(t, navigator.Paths())
	})

	t.Run("renders nothing while the session is not ready", func(t *testing.T) {
		g, notifier, _ := newGuard(t, guard.RequireRole(principal.RoleAdmin))

		require.Equal(t, guard.OutcomePending, g.Evaluate(notReadySession(), "/admin"))
		require.Empty(t, notifier.Notifications())
	})
}
