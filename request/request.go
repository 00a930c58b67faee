// Package request decorates outbound HTTP requests with the current
// session's access token. It does not retry, refresh, or inspect
// responses; a caller that receives a 401 from a protected endpoint is
// responsible for logging the session out.
package request

import (
	"net/http"

	"github.com/jrsteele09/go-booking-client/session"
)

// DefaultScheme is the Authorization header scheme the booking
// service expects.
const DefaultScheme = "Bearer"

// WithAuth returns a shallow copy of req with the session's access
// token attached as "<scheme> <access>". The request is returned
// unchanged when the session holds no credential. The original request
// is never mutated.
func WithAuth(sess session.Session, req *http.Request, scheme string) *http.Request {
	if sess.Credential == nil {
		return req
	}
	if scheme == "" {
		scheme = DefaultScheme
	}
	out := req.Clone(req.Context())
	out.Header.Set("Authorization", scheme+" "+sess.Credential.Access)
	return out
}

// SessionSource supplies the current session snapshot, typically a
// *session.Controller.
type SessionSource interface {
	Current() session.Session
}

// Transport is the RoundTripper form of WithAuth: every request goes
// out with the current access token attached. OnUnauthorized, when
// set, is invoked after any 401 response so the owner can log the
// session out.
type Transport struct {
	Base           http.RoundTripper
	Source         SessionSource
	Scheme         string
	OnUnauthorized func()
}

var _ http.RoundTripper = (*Transport)(nil)

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(WithAuth(t.Source.Current(), req, t.Scheme))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && t.OnUnauthorized != nil {
		t.OnUnauthorized()
	}
	return resp, nil
}
