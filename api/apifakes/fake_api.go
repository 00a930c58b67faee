package apifakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-booking-client/credential"
	"github.com/jrsteele09/go-booking-client/session"
	"github.com/pkg/errors"
)

var _ session.API = (*FakeAPI)(nil)

// FakeAPI is a scripted stand-in for the booking-service client.
// Tests assign LoginFn/RefreshFn; every call is counted.
type FakeAPI struct {
	LoginFn   func(username, password string) (*credential.Credential, error)
	RefreshFn func(refreshToken string) (*credential.Credential, error)

	lock          sync.Mutex
	loginCalls    int
	refreshCalls  int
	refreshTokens []string
}

func NewFakeAPI() *FakeAPI {
	return &FakeAPI{}
}

func (f *FakeAPI) Login(_ context.Context, username, password string) (*credential.Credential, error) {
	f.lock.Lock()
	f.loginCalls++
	fn := f.LoginFn
	f.lock.Unlock()

	if fn == nil {
		return nil, errors.New("no login response scripted")
	}
	return fn(username, password)
}

func (f *FakeAPI) Refresh(_ context.Context, refreshToken string) (*credential.Credential, error) {
	f.lock.Lock()
	f.refreshCalls++
	f.refreshTokens = append(f.refreshTokens, refreshToken)
	fn := f.RefreshFn
	f.lock.Unlock()

	if fn == nil {
		return nil, errors.New("no refresh response scripted")
	}
	return fn(refreshToken)
}

// LoginCalls returns how many times Login was invoked.
func (f *FakeAPI) LoginCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.loginCalls
}

// RefreshCalls returns how many times Refresh was invoked.
func (f *FakeAPI) RefreshCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.refreshCalls
}

// RefreshTokens returns the refresh tokens presented, in call order.
func (f *FakeAPI) RefreshTokens() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	out := make([]string, len(f.refreshTokens))
	copy(out, f.refreshTokens)
	return out
}
