// Package api is the typed REST client for the booking service's user
// and auth endpoints. It does not retry and does not refresh tokens;
// the session controller owns that behavior.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-booking-client/credential"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jrsteele09/go-booking-client/api"

// DefaultScheme is the Authorization header scheme the service expects.
const DefaultScheme = "Bearer"

// Client calls the booking service over JSON/HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
	tracer     trace.Tracer
	scheme     string
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithScheme overrides the Authorization header scheme.
func WithScheme(scheme string) ClientOption {
	return func(c *Client) {
		c.scheme = scheme
	}
}

// NewClient creates a client rooted at baseURL, e.g. "https://api.example.com".
func NewClient(baseURL string, options ...ClientOption) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zerolog.Nop(),
		tracer:     otel.Tracer(instrumentationName),
		scheme:     DefaultScheme,
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

// Login exchanges user credentials for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*credential.Credential, error) {
	payload := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	status, body, err := c.send(ctx, http.MethodPost, EndpointLogin, "", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, errors.Wrapf(ErrRejected, "login: status %d", status)
	}
	return decodePair(body, "[Client.Login]")
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*credential.Credential, error) {
	payload := struct {
		Refresh string `json:"refresh"`
	}{Refresh: refreshToken}

	status, body, err := c.send(ctx, http.MethodPost, EndpointRefresh, "", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, errors.Wrapf(ErrRejected, "refresh: status %d", status)
	}
	return decodePair(body, "[Client.Refresh]")
}

// Register creates a new account. Validation failures come back as a
// FieldErrors value keyed by the offending fields.
func (c *Client) Register(ctx context.Context, registration Registration) error {
	status, body, err := c.send(ctx, http.MethodPost, EndpointRegister, "", registration)
	if err != nil {
		return err
	}
	if status == http.StatusCreated {
		return nil
	}
	if fieldErrs := parseFieldErrors(body); fieldErrs != nil {
		return fieldErrs
	}
	return errors.Wrapf(ErrRejected, "register: status %d", status)
}

// Profile fetches the authenticated user's account record.
func (c *Client) Profile(ctx context.Context, accessToken string) (*Profile, error) {
	status, body, err := c.send(ctx, http.MethodGet, EndpointProfile, accessToken, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, errors.Wrapf(ErrUnauthorized, "profile: status %d", status)
	}
	if status != http.StatusOK {
		return nil, errors.Wrapf(ErrRejected, "profile: status %d", status)
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, errors.Wrap(err, "[Client.Profile] decode response")
	}
	return &profile, nil
}

// UpdateProfile applies a partial profile edit and returns the updated
// record. A username change here should be followed by
// Controller.UpdateUsername to patch the live session's display name.
func (c *Client) UpdateProfile(ctx context.Context, accessToken string, update ProfileUpdate) (*Profile, error) {
	status, body, err := c.send(ctx, http.MethodPatch, EndpointProfile, accessToken, update)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, errors.Wrapf(ErrUnauthorized, "update profile: status %d", status)
	}
	if status != http.StatusOK {
		if fieldErrs := parseFieldErrors(body); fieldErrs != nil {
			return nil, fieldErrs
		}
		return nil, errors.Wrapf(ErrRejected, "update profile: status %d", status)
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, errors.Wrap(err, "[Client.UpdateProfile] decode response")
	}
	return &profile, nil
}

// send performs one request and returns the raw status and body. The
// returned error covers only build and transport failures; status
// handling belongs to the caller.
func (c *Client) send(ctx context.Context, method, endpoint, accessToken string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, errors.Wrap(err, "[Client.send] marshal payload")
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return 0, nil, errors.Wrap(err, "[Client.send] build request")
	}

	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", c.scheme+" "+accessToken)
	}

	spanCtx, span := c.tracer.Start(ctx, method+" "+endpoint)
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.target", endpoint),
		attribute.String("request.id", requestID),
	)
	defer span.End()

	resp, err := c.httpClient.Do(req.WithContext(spanCtx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug().Err(err).Str("endpoint", endpoint).Str("request_id", requestID).Msg("Request failed")
		return 0, nil, errors.Wrap(ErrNetwork, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, nil, errors.Wrap(ErrNetwork, err.Error())
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	span.SetStatus(codes.Ok, "")
	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Msg("Request completed")

	return resp.StatusCode, body, nil
}

func decodePair(body []byte, context string) (*credential.Credential, error) {
	var cred credential.Credential
	if err := json.Unmarshal(body, &cred); err != nil {
		return nil, errors.Wrap(err, context+" decode token pair")
	}
	if cred.Access == "" || cred.Refresh == "" {
		return nil, errors.New(context + " token pair incomplete")
	}
	return &cred, nil
}
