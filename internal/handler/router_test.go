package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/eventoz/internal/auth"
	"github.com/Shivanand-hulikatti/eventoz/internal/config"
	"github.com/Shivanand-hulikatti/eventoz/internal/model"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository/memory"
	"github.com/Shivanand-hulikatti/eventoz/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	tokens  *auth.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	return newTestServerWith(t, store, store, true)
}

func newTestServerWith(t *testing.T, store repository.Store, pinger Pinger, expose bool) *testServer {
	t.Helper()
	tokens := auth.NewTokenService("test-secret", time.Hour)
	logger := zerolog.Nop()
	h := New(
		service.NewCredentialStore(store.Users(), auth.NewBcryptHasher(auth.MinBcryptCost), tokens, logger),
		service.NewEventRegistry(store.Events()),
		service.NewAttendanceTracker(store.Registrations(), logger),
		expose,
	)
	router := NewRouter(h, RouterConfig{
		Tokens: tokens,
		Store:  pinger,
		CORS:   config.CORSConfig{AllowedOrigins: []string{"https://eventoz.netlify.app"}},
		Logger: logger,
	})
	return &testServer{handler: router, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	s.handler.ServeHTTP(res, req)
	return res
}

func decode(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &out), res.Body.String())
	return out
}

func TestRegisterAndLoginFlow(t *testing.T) {
	s := newTestServer(t)
	creds := map[string]string{"email": "a@x.com", "password": "pw"}

	res := s.do(t, http.MethodPost, "/register", creds, "")
	require.Equal(t, http.StatusCreated, res.Code)
	body := decode(t, res)
	require.Equal(t, "User Created Successfully", body["message"])
	result := body["result"].(map[string]any)
	require.Equal(t, "a@x.com", result["email"])
	require.NotContains(t, result, "PasswordHash")
	userID := result["id"].(string)

	res = s.do(t, http.MethodPost, "/register", creds, "")
	require.Equal(t, http.StatusConflict, res.Code)
	require.Equal(t, "User with this email already exists", decode(t, res)["message"])

	res = s.do(t, http.MethodPost, "/login", creds, "")
	require.Equal(t, http.StatusOK, res.Code)
	user := decode(t, res)["user"].(map[string]any)
	require.Equal(t, "a@x.com", user["email"])

	id, err := s.tokens.Verify(user["token"].(string))
	require.NoError(t, err)
	require.Equal(t, userID, id.UserID)

	res = s.do(t, http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "wrong"}, "")
	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Equal(t, "Invalid password", decode(t, res)["message"])

	res = s.do(t, http.MethodPost, "/login", map[string]string{"email": "nobody@x.com", "password": "pw"}, "")
	require.Equal(t, http.StatusNotFound, res.Code)
	require.Equal(t, "Email not found", decode(t, res)["message"])
}

func TestRegisterBadInput(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodPost, "/register", "{not json", "")
	require.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodPost, "/register", map[string]string{"email": "nope", "password": "pw"}, "")
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, decode(t, res)["error"], "Email")

	res = s.do(t, http.MethodPost, "/login", map[string]string{"email": "a@x.com"}, "")
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestAttendanceFlow(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodPost, "/eventregistereduser", map[string]any{
		"id": "r1", "formId": "f1", "name": "Ada", "email": "ada@x.com", "attended": true,
	}, "")
	require.Equal(t, http.StatusCreated, res.Code)
	result := decode(t, res)["result"].(map[string]any)
	require.Equal(t, "r1", result["id"])
	require.Equal(t, "Ada", result["name"])
	require.Equal(t, true, result["registered"])
	require.Equal(t, false, result["attended"])
	require.NotEmpty(t, result["createdAt"])

	res = s.do(t, http.MethodGet, "/event/f1/registrations", nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	require.EqualValues(t, 1, decode(t, res)["registrationCount"])

	res = s.do(t, http.MethodGet, "/event/f1/attended", nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	require.EqualValues(t, 0, decode(t, res)["attendedCount"])

	res = s.do(t, http.MethodGet, "/attendedusers/f1", nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, []any{}, decode(t, res)["attendedUsers"])

	res = s.do(t, http.MethodPost, "/updateAttendance", map[string]string{"id": "r1"}, "")
	require.Equal(t, http.StatusOK, res.Code)
	body := decode(t, res)
	require.Equal(t, "Attendance updated successfully", body["message"])
	require.Equal(t, "Ada", body["name"])

	res = s.do(t, http.MethodGet, "/event/f1/attended", nil, "")
	require.EqualValues(t, 1, decode(t, res)["attendedCount"])

	res = s.do(t, http.MethodGet, "/attendedusers/f1", nil, "")
	attended := decode(t, res)["attendedUsers"].([]any)
	require.Len(t, attended, 1)
	require.Equal(t, "ada@x.com", attended[0].(map[string]any)["email"])

	res = s.do(t, http.MethodGet, "/registeredusers/f1", nil, "")
	require.Len(t, decode(t, res)["registeredUsers"].([]any), 1)

	res = s.do(t, http.MethodPost, "/updateAttendance", map[string]string{"id": "unknown"}, "")
	require.Equal(t, http.StatusNotFound, res.Code)
	require.Equal(t, "User or registration not found", decode(t, res)["message"])

	res = s.do(t, http.MethodPost, "/updateAttendance", map[string]string{}, "")
	require.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodPost, "/eventregistereduser", map[string]any{"name": "no ids"}, "")
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestProtectedRoutes(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/auth-endpoint"},
		{http.MethodGet, "/myevents"},
		{http.MethodPost, "/createevent"},
	} {
		res := s.do(t, tc.method, tc.path, nil, "")
		require.Equal(t, http.StatusUnauthorized, res.Code, tc.path)
	}

	res := s.do(t, http.MethodGet, "/auth-endpoint", nil, "garbage")
	require.Equal(t, http.StatusUnauthorized, res.Code)

	token, err := s.tokens.Issue("owner-1", "o@x.com")
	require.NoError(t, err)

	res = s.do(t, http.MethodGet, "/auth-endpoint", nil, token)
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "You are authorized to access me", decode(t, res)["message"])

	res = s.do(t, http.MethodPost, "/createevent", map[string]string{
		"id": "e1", "eventName": "Launch", "eventDesc": "desc", "date": "2026-05-01", "banner": "b.png", "userId": "spoofed",
	}, token)
	require.Equal(t, http.StatusCreated, res.Code)
	result := decode(t, res)["result"].(map[string]any)
	require.Equal(t, "owner-1", result["userId"])
	require.Equal(t, "Launch", result["eventName"])

	res = s.do(t, http.MethodPost, "/createevent", map[string]string{"eventName": "no id"}, token)
	require.Equal(t, http.StatusBadRequest, res.Code)

	other, err := s.tokens.Issue("owner-2", "p@x.com")
	require.NoError(t, err)

	res = s.do(t, http.MethodGet, "/myevents", nil, token)
	require.Equal(t, http.StatusOK, res.Code)
	require.Len(t, decode(t, res)["events"].([]any), 1)

	res = s.do(t, http.MethodGet, "/myevents", nil, other)
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, []any{}, decode(t, res)["events"])
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodGet, "/free-endpoint", nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "You are free to access me anytime", decode(t, res)["message"])

	res = s.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "Hello World!", res.Body.String())

	res = s.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "ok", decode(t, res)["status"])

	res = s.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "eventoz_http_requests_in_flight")
}

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthReportsStoreDown(t *testing.T) {
	s := newTestServerWith(t, memory.NewStore(), downPinger{}, true)
	res := s.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, res.Code)
}

// brokenStore fails every registration read so 500 handling can be checked.
type brokenStore struct {
	*memory.Store
}

type brokenRegistrations struct {
	repository.RegistrationRepository
}

func (brokenRegistrations) Count(context.Context, repository.RegistrationFilter) (int64, error) {
	return 0, errors.New("pq: connection reset")
}

func (b brokenStore) Registrations() repository.RegistrationRepository {
	return brokenRegistrations{b.Store.Registrations()}
}

func TestStoreErrorDetailFollowsEnvironment(t *testing.T) {
	dev := newTestServerWith(t, brokenStore{memory.NewStore()}, nil, true)
	res := dev.do(t, http.MethodGet, "/event/f1/registrations", nil, "")
	require.Equal(t, http.StatusInternalServerError, res.Code)
	body := decode(t, res)
	require.Equal(t, "Error fetching registration count", body["message"])
	require.Contains(t, body["error"], "connection reset")

	prod := newTestServerWith(t, brokenStore{memory.NewStore()}, nil, false)
	res = prod.do(t, http.MethodGet, "/event/f1/registrations", nil, "")
	require.Equal(t, http.StatusInternalServerError, res.Code)
	require.NotContains(t, decode(t, res), "error")
}

func TestRegisterBodyLimit(t *testing.T) {
	s := newTestServer(t)
	big := `{"email":"a@x.com","password":"` + string(bytes.Repeat([]byte("a"), maxBodyBytes+1)) + `"}`
	res := s.do(t, http.MethodPost, "/register", big, "")
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestResponsesAreJSON(t *testing.T) {
	s := newTestServer(t)
	res := s.do(t, http.MethodGet, "/event/f1/registrations", nil, "")
	require.Equal(t, "application/json", res.Header().Get("Content-Type"))

	var parsed model.RegistrationCountResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &parsed))
	require.Zero(t, parsed.RegistrationCount)
}

func TestAttendanceFlowWithNumericIDs(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodPost, "/eventregistereduser",
		`{"id":1700000000000,"formId":2500000,"name":"Grace"}`, "")
	require.Equal(t, http.StatusCreated, res.Code)
	result := decode(t, res)["result"].(map[string]any)
	require.Equal(t, "1700000000000", result["id"])
	require.Equal(t, "2500000", result["formId"])

	res = s.do(t, http.MethodGet, "/event/2500000/registrations", nil, "")
	require.EqualValues(t, 1, decode(t, res)["registrationCount"])

	res = s.do(t, http.MethodPost, "/updateAttendance", `{"id":1700000000000}`, "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "Grace", decode(t, res)["name"])

	res = s.do(t, http.MethodGet, "/event/2500000/attended", nil, "")
	require.EqualValues(t, 1, decode(t, res)["attendedCount"])

	// The same registration is reachable by its string id.
	res = s.do(t, http.MethodPost, "/updateAttendance", `{"id":"1700000000000"}`, "")
	require.Equal(t, http.StatusOK, res.Code)

	res = s.do(t, http.MethodPost, "/updateAttendance", `{"id":{"n":1}}`, "")
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestRegisterPasswordTooLong(t *testing.T) {
	s := newTestServer(t)
	long := string(bytes.Repeat([]byte("p"), 80))

	res := s.do(t, http.MethodPost, "/register", map[string]string{"email": "long@x.com", "password": long}, "")
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, decode(t, res)["error"], "72 bytes")
}
