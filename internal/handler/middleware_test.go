package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/eventoz/internal/auth"
	"github.com/Shivanand-hulikatti/eventoz/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "https://eventoz.netlify.app")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	res := httptest.NewRecorder()
	s.handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusNoContent, res.Code)
	require.Equal(t, "https://eventoz.netlify.app", res.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", res.Header().Get("Access-Control-Allow-Credentials"))
	require.Contains(t, res.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	var logs bytes.Buffer
	mw := CORS(config.CORSConfig{AllowedOrigins: []string{"https://eventoz.netlify.app"}}, zerolog.New(&logs))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/free-endpoint", nil)
	req.Header.Set("Origin", "https://evil.example")
	res := httptest.NewRecorder()
	mw(next).ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Empty(t, res.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, logs.String(), "origin not allowed")
}

func TestCORSAllowAll(t *testing.T) {
	mw := CORS(config.CORSConfig{AllowAllOrigins: true}, zerolog.Nop())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	res := httptest.NewRecorder()
	mw(next).ServeHTTP(res, req)

	require.Equal(t, "http://localhost:5173", res.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequireAuth(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := auth.NewTokenService("secret", 24*time.Hour, auth.WithClock(func() time.Time { return issuedAt }))
	token, err := issuer.Issue("u1", "u1@x.com")
	require.NoError(t, err)

	var seen auth.Identity
	protected := func(tokens TokenVerifier) http.Handler {
		return RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = auth.IdentityFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))
	}

	tests := []struct {
		name    string
		now     time.Time
		header  string
		status  int
		message string
	}{
		{"valid bearer", issuedAt.Add(time.Hour), "Bearer " + token, http.StatusOK, ""},
		{"bare token", issuedAt.Add(time.Hour), token, http.StatusOK, ""},
		{"missing", issuedAt, "", http.StatusUnauthorized, "Authentication required"},
		{"garbage", issuedAt, "Bearer abc.def.ghi", http.StatusUnauthorized, "Invalid token"},
		{"expired", issuedAt.Add(25 * time.Hour), "Bearer " + token, http.StatusUnauthorized, "Token expired"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = auth.Identity{}
			now := tc.now
			verifier := auth.NewTokenService("secret", 24*time.Hour, auth.WithClock(func() time.Time { return now }))

			req := httptest.NewRequest(http.MethodGet, "/auth-endpoint", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			res := httptest.NewRecorder()
			protected(verifier).ServeHTTP(res, req)

			require.Equal(t, tc.status, res.Code)
			if tc.status == http.StatusOK {
				require.Equal(t, "u1", seen.UserID)
				require.Equal(t, "u1@x.com", seen.Email)
				return
			}
			var body map[string]any
			require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
			require.Equal(t, tc.message, body["message"])
			require.Empty(t, seen.UserID)
		})
	}
}

func TestLoggerWritesAccessLine(t *testing.T) {
	var logs bytes.Buffer
	h := Logger(zerolog.New(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/brew", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := logs.String()
	require.Contains(t, out, `"message":"inside"`)
	require.Contains(t, out, `"status":418`)
	require.Contains(t, out, `"path":"/brew"`)
}
