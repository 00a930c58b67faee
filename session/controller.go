package session

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-booking-client/api"
	"github.com/jrsteele09/go-booking-client/credential"
	"github.com/jrsteele09/go-booking-client/notify"
	"github.com/jrsteele09/go-booking-client/principal"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultRefreshInterval is the silent-renewal period. It must stay
// shorter than the shortest access-token lifetime the issuer hands out.
const DefaultRefreshInterval = 4 * time.Minute

// Controller is the session state machine. It starts not-ready, moves
// to authenticated or anonymous after Hydrate, and keeps the pair
// fresh with a recurring renewal timer while one is held.
type Controller struct {
	api      API
	store    *credential.Store
	notifier notify.Notifier
	logger   zerolog.Logger
	interval time.Duration

	mu            sync.Mutex
	cred          *credential.Credential
	prin          *principal.Principal
	ready         bool
	epoch         uint64 // bumped on every pair replacement and logout
	inflight      *refreshCall
	stopScheduler chan struct{}
	subscribers   map[int]func(Session)
	nextSubID     int
}

// refreshCall is the single in-flight rotation; concurrent Refresh
// callers wait on done and share err.
type refreshCall struct {
	done chan struct{}
	err  error
}

// ControllerOption defines a function type to modify the Controller instance.
type ControllerOption func(*Controller)

// WithRefreshInterval overrides the silent-renewal period.
func WithRefreshInterval(interval time.Duration) ControllerOption {
	return func(c *Controller) {
		c.interval = interval
	}
}

// WithLogger sets the controller's logger.
func WithLogger(logger zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController initializes a Controller with required dependencies.
// The controller is not ready until Hydrate has run.
func NewController(apiClient API, store *credential.Store, notifier notify.Notifier, options ...ControllerOption) (*Controller, error) {
	if apiClient == nil {
		return nil, errors.New("[NewController] api client is required")
	}
	if store == nil {
		return nil, errors.New("[NewController] credential store is required")
	}
	if notifier == nil {
		return nil, errors.New("[NewController] notifier is required")
	}

	controller := &Controller{
		api:         apiClient,
		store:       store,
		notifier:    notifier,
		logger:      zerolog.Nop(),
		interval:    DefaultRefreshInterval,
		subscribers: make(map[int]func(Session)),
	}

	for _, opt := range options {
		opt(controller)
	}

	return controller, nil
}

// Hydrate restores the persisted session, if any. An empty store means
// anonymous; a persisted pair is never trusted as-is - it is confirmed
// with one refresh, and cleared if the service rejects it. Either way
// the controller is ready when Hydrate returns.
func (c *Controller) Hydrate(ctx context.Context) error {
	cred := c.store.Load()
	if cred == nil {
		c.mu.Lock()
		c.ready = true
		snap, subs := c.snapshotLocked()
		c.mu.Unlock()
		publish(snap, subs)
		return nil
	}

	c.mu.Lock()
	// The principal is minted by the refresh below, never decoded from
	// a token that may be past a renewal boundary.
	c.cred = cred
	c.mu.Unlock()

	err := c.Refresh(ctx)

	c.mu.Lock()
	c.ready = true
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()
	publish(snap, subs)

	if err != nil {
		return errors.Wrap(err, "[Controller.Hydrate] initial refresh")
	}
	return nil
}

// Login exchanges the user's credentials for a token pair. A rejected
// or unreachable login surfaces a notification and leaves the session
// state untouched.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	cred, err := c.api.Login(ctx, username, password)
	if err != nil {
		reason := "rejected"
		if errors.Is(err, api.ErrNetwork) {
			reason = "network"
		}
		c.logger.Warn().Err(err).Str("reason", reason).Str("username", username).Msg("Login failed")
		c.notifier.Notify(notify.KindError, "Wrong credentials")
		return errors.Wrap(ErrAuthFailed, err.Error())
	}

	prin, err := principal.Decode(cred.Access)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Login returned an undecodable access token")
		c.notifier.Notify(notify.KindError, "Wrong credentials")
		return errors.Wrap(ErrAuthFailed, err.Error())
	}

	c.mu.Lock()
	c.ready = true
	snap, subs := c.replaceLocked(cred, prin)
	c.mu.Unlock()
	publish(snap, subs)
	return nil
}

// Refresh rotates the credential pair. Concurrent calls coalesce into
// the single in-flight rotation, so at most one network request is
// ever outstanding. Any failure logs the session out.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if call := c.inflight; call != nil {
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if c.cred == nil {
		c.mu.Unlock()
		return errors.Wrap(ErrRefreshFailed, "no refresh token held")
	}
	call := &refreshCall{done: make(chan struct{})}
	c.inflight = call
	refreshToken := c.cred.Refresh
	epoch := c.epoch
	c.mu.Unlock()

	call.err = c.rotate(ctx, refreshToken, epoch)

	c.mu.Lock()
	c.inflight = nil
	c.mu.Unlock()
	close(call.done)
	return call.err
}

// rotate performs one network refresh. epoch identifies the session
// the rotation was started for; if the session was replaced or logged
// out in the meantime, the outcome is discarded.
func (c *Controller) rotate(ctx context.Context, refreshToken string, epoch uint64) error {
	cred, err := c.api.Refresh(ctx, refreshToken)
	var prin *principal.Principal
	if err == nil {
		prin, err = principal.Decode(cred.Access)
	}

	if err != nil {
		c.mu.Lock()
		if c.epoch != epoch {
			c.mu.Unlock()
			return errors.Wrap(ErrStaleRefresh, err.Error())
		}
		snap, subs := c.logoutLocked()
		c.mu.Unlock()
		publish(snap, subs)
		c.logger.Debug().Err(err).Msg("Refresh failed, session logged out")
		return errors.Wrap(ErrRefreshFailed, err.Error())
	}

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return errors.Wrap(ErrStaleRefresh, "session replaced while refresh was in flight")
	}
	snap, subs := c.replaceLocked(cred, prin)
	c.mu.Unlock()
	publish(snap, subs)
	return nil
}

// Logout drops the pair, clears the persisted copy and cancels the
// renewal timer. A refresh in flight at this moment may still
// complete; the epoch bump makes its result stale.
func (c *Controller) Logout() {
	c.mu.Lock()
	snap, subs := c.logoutLocked()
	c.mu.Unlock()
	publish(snap, subs)
}

// UpdateUsername patches the display name on the current principal
// after a profile edit. This is a local patch, not a re-authentication:
// the credential pair is untouched and no network call happens. No-op
// when logged out.
func (c *Controller) UpdateUsername(username string) {
	c.mu.Lock()
	if c.prin == nil {
		c.mu.Unlock()
		return
	}
	updated := c.prin.WithUsername(username)
	c.prin = &updated
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()
	publish(snap, subs)
}

// Current returns a snapshot of the session.
func (c *Controller) Current() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionLocked()
}

// Subscribe registers fn to be called with a snapshot after every
// state change. The returned function cancels the subscription.
func (c *Controller) Subscribe(fn func(Session)) (cancel func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// Close cancels the renewal scheduler. The session state itself is
// untouched; a persisted pair survives for the next start.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopSchedulerLocked()
	c.mu.Unlock()
}

// replaceLocked installs a new credential/principal pair as one
// transition and persists it. Callers publish the returned snapshot
// after unlocking.
func (c *Controller) replaceLocked(cred *credential.Credential, prin *principal.Principal) (Session, []func(Session)) {
	c.cred = cred
	c.prin = prin
	c.epoch++
	if err := c.store.Save(*cred); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to persist credential pair")
	}
	c.startSchedulerLocked()
	return c.snapshotLocked()
}

func (c *Controller) logoutLocked() (Session, []func(Session)) {
	c.cred = nil
	c.prin = nil
	c.epoch++
	c.stopSchedulerLocked()
	if err := c.store.Clear(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to clear persisted credential pair")
	}
	return c.snapshotLocked()
}

func (c *Controller) sessionLocked() Session {
	return Session{
		Principal:  c.prin,
		Credential: c.cred,
		Ready:      c.ready,
	}
}

func (c *Controller) snapshotLocked() (Session, []func(Session)) {
	subs := make([]func(Session), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	return c.sessionLocked(), subs
}

func publish(snap Session, subs []func(Session)) {
	for _, fn := range subs {
		fn(snap)
	}
}

func (c *Controller) startSchedulerLocked() {
	if c.stopScheduler != nil {
		return
	}
	stop := make(chan struct{})
	c.stopScheduler = stop
	go c.renewLoop(stop)
}

func (c *Controller) stopSchedulerLocked() {
	if c.stopScheduler == nil {
		return
	}
	close(c.stopScheduler)
	c.stopScheduler = nil
}

// renewLoop re-invokes Refresh on a fixed period for as long as a
// pair is held. The period does not consult the token's own expiry
// claim; see DefaultRefreshInterval.
func (c *Controller) renewLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := c.Refresh(context.Background()); err != nil && !errors.Is(err, ErrStaleRefresh) {
				c.logger.Debug().Err(err).Msg("Scheduled renewal failed")
			}
		}
	}
}
