package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-booking-client/api"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Run("returns the token pair", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, api.EndpointLogin, r.URL.Path)
			require.NotEmpty(t, r.Header.Get("X-Request-ID"))

			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Equal(t, "alice", payload["username"])
			require.Equal(t, "correct", payload["password"])

			json.NewEncoder(w).Encode(map[string]string{"access": "a1", "refresh": "r1"})
		}))
		defer server.Close()

		cred, err := api.NewClient(server.URL).Login(context.Background(), "alice", "correct")
		require.NoError(t, err)
		require.Equal(t, "a1", cred.Access)
		require.Equal(t, "r1", cred.Refresh)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := api.NewClient(server.URL).Login(context.Background(), "alice", "wrong")
		require.ErrorIs(t, err, api.ErrRejected)
	})

	t.Run("unreachable service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // refuse connections

		_, err := api.NewClient(server.URL).Login(context.Background(), "alice", "correct")
		require.ErrorIs(t, err, api.ErrNetwork)
	})

	t.Run("incomplete pair", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"access": "a1"})
		}))
		defer server.Close()

		_, err := api.NewClient(server.URL).Login(context.Background(), "alice", "correct")
		require.Error(t, err)
	})
}

func TestRefresh(t *testing.T) {
	t.Run("rotates the pair", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, api.EndpointRefresh, r.URL.Path)

			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Equal(t, "r1", payload["refresh"])

			json.NewEncoder(w).Encode(map[string]string{"access": "a2", "refresh": "r2"})
		}))
		defer server.Close()

		cred, err := api.NewClient(server.URL).Refresh(context.Background(), "r1")
		require.NoError(t, err)
		require.Equal(t, "a2", cred.Access)
		require.Equal(t, "r2", cred.Refresh)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := api.NewClient(server.URL).Refresh(context.Background(), "r1")
		require.ErrorIs(t, err, api.ErrRejected)
	})
}

func TestRegister(t *testing.T) {
	registration := api.Registration{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "pw",
		Password2: "pw",
	}

	t.Run("created", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, api.EndpointRegister, r.URL.Path)
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		require.NoError(t, api.NewClient(server.URL).Register(context.Background(), registration))
	})

	t.Run("field-keyed validation errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string][]string{
				"username": {"A user with that username already exists."},
			})
		}))
		defer server.Close()

		err := api.NewClient(server.URL).Register(context.Background(), registration)

		var fieldErrs api.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		require.Contains(t, fieldErrs, "username")
		require.Contains(t, err.Error(), "username")
	})
}

func TestProfile(t *testing.T) {
	t.Run("fetches the account record", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "Bearer a1", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]any{
				"id": 42, "username": "alice", "email": "alice@example.com", "role": "user",
			})
		}))
		defer server.Close()

		profile, err := api.NewClient(server.URL).Profile(context.Background(), "a1")
		require.NoError(t, err)
		require.Equal(t, 42, profile.ID)
		require.Equal(t, "alice", profile.Username)
	})

	t.Run("expired token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := api.NewClient(server.URL).Profile(context.Background(), "a1")
		require.ErrorIs(t, err, api.ErrUnauthorized)
	})

	t.Run("username update", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPatch, r.Method)

			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Equal(t, "bob2", payload["username"])
			require.NotContains(t, payload, "email")

			json.NewEncoder(w).Encode(map[string]any{"id": 42, "username": "bob2", "role": "user"})
		}))
		defer server.Close()

		username := "bob2"
		profile, err := api.NewClient(server.URL).UpdateProfile(context.Background(), "a1", api.ProfileUpdate{Username: &username})
		require.NoError(t, err)
		require.Equal(t, "bob2", profile.Username)
	})
}
