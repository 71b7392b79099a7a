// ABOUTME: End-to-end tests for the HTTP API through the full route table
// ABOUTME: Covers registration, login, ownership isolation, filtering, and error taxonomy

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaylabs/taskdock/internal/auth"
	"github.com/relaylabs/taskdock/internal/store"
)

// apiTestSecret is a 32-byte secret that meets MinSecretLength requirement.
var apiTestSecret = []byte("api-handler-test-secret-32-bytes")

func newTestServer(t *testing.T) (*Server, *auth.JWTCodec) {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	codec, err := auth.NewJWTCodec(apiTestSecret, time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(st, codec, logger), codec
}

// doJSON performs a request against the server's route table and decodes the
// JSON response into out (when out is non-nil).
func doJSON(t *testing.T, s *Server, method, path, token string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
	}
	return rec
}

func registerUser(t *testing.T, s *Server, name, email, password string) string {
	t.Helper()
	var resp TokenResponse
	rec := doJSON(t, s, http.MethodPost, "/api/auth/register", "",
		RegisterRequest{Name: name, Email: email, Password: password}, &resp)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func boolPtr(b bool) *bool {
	return &b
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	var resp HealthResponse
	rec := doJSON(t, s, http.MethodGet, "/api/health", "", nil, &resp)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestRegister_TokenResolvesToNewUser(t *testing.T) {
	s, codec := newTestServer(t)

	token := registerUser(t, s, "A", "a@x.com", "secret-pw")

	// The issued token must verify to the created user's ID
	userID, err := codec.Verify(token)
	require.NoError(t, err)

	var me UserResponse
	rec := doJSON(t, s, http.MethodGet, "/api/auth/me", token, nil, &me)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, me.ID)
	assert.Equal(t, "A", me.Name)
	assert.Equal(t, "a@x.com", me.Email)
}

func TestRegister_Validation(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing name", RegisterRequest{Email: "a@x.com", Password: "secret-pw"}},
		{"malformed email", RegisterRequest{Name: "A", Email: "not-an-email", Password: "secret-pw"}},
		{"short password", RegisterRequest{Name: "A", Email: "a@x.com", Password: "pw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/auth/register", "", tt.req, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, _ := newTestServer(t)
	registerUser(t, s, "A", "dup@x.com", "secret-pw")

	rec := doJSON(t, s, http.MethodPost, "/api/auth/register", "",
		RegisterRequest{Name: "B", Email: "DUP@x.com", Password: "other-pw"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	s, codec := newTestServer(t)
	registerUser(t, s, "A", "a@x.com", "secret-pw")

	var resp TokenResponse
	rec := doJSON(t, s, http.MethodPost, "/api/auth/login", "",
		LoginRequest{Email: "a@x.com", Password: "secret-pw"}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := codec.Verify(resp.Token)
	assert.NoError(t, err)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s, _ := newTestServer(t)
	registerUser(t, s, "A", "a@x.com", "secret-pw")

	// Wrong password and unknown email must be indistinguishable
	wrongPw := doJSON(t, s, http.MethodPost, "/api/auth/login", "",
		LoginRequest{Email: "a@x.com", Password: "wrong"}, nil)
	unknown := doJSON(t, s, http.MethodPost, "/api/auth/login", "",
		LoginRequest{Email: "nobody@x.com", Password: "wrong"}, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrongPw.Body.String(), unknown.Body.String())
}

func TestProtectedEndpoints_RequireToken(t *testing.T) {
	s, _ := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodPut, "/api/tasks/some-id"},
		{http.MethodDelete, "/api/tasks/some-id"},
		{http.MethodGet, "/api/user/profile"},
		{http.MethodPut, "/api/user/profile"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := doJSON(t, s, p.method, p.path, "", nil, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestTask_CreateAndSearchRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "A", "a@x.com", "secret-pw")

	var created TaskResponse
	rec := doJSON(t, s, http.MethodPost, "/api/tasks", token,
		CreateTaskRequest{Title: "x"}, &created)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEmpty(t, created.ID)

	var tasks []TaskResponse
	rec = doJSON(t, s, http.MethodGet, "/api/tasks?search=x", token, nil, &tasks)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
}

func TestTask_CreateValidation(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "A", "a@x.com", "secret-pw")

	rec := doJSON(t, s, http.MethodPost, "/api/tasks", token, CreateTaskRequest{Title: "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/tasks", token,
		CreateTaskRequest{Title: "t", DueDate: "next tuesday"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTask_PastDueDateStillListed(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "A", "a@x.com", "secret-pw")

	past := time.Now().UTC().Add(-72 * time.Hour).Format(time.RFC3339)
	rec := doJSON(t, s, http.MethodPost, "/api/tasks", token,
		CreateTaskRequest{Title: "overdue thing", DueDate: past}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var tasks []TaskResponse
	rec = doJSON(t, s, http.MethodGet, "/api/tasks", token, nil, &tasks)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, tasks, 1)
	assert.Equal(t, "overdue thing", tasks[0].Title)
}

func TestTask_CompletedFilterAndToggle(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "A", "a@x.com", "secret-pw")

	var created TaskResponse
	doJSON(t, s, http.MethodPost, "/api/tasks", token, CreateTaskRequest{Title: "toggle me"}, &created)

	// Toggle on
	var updated TaskResponse
	rec := doJSON(t, s, http.MethodPut, "/api/tasks/"+created.ID, token,
		UpdateTaskRequest{Completed: boolPtr(true)}, &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, updated.Completed)

	var tasks []TaskResponse
	doJSON(t, s, http.MethodGet, "/api/tasks?completed=true", token, nil, &tasks)
	require.Len(t, tasks, 1)

	// Toggle back off returns the task to its original state
	rec = doJSON(t, s, http.MethodPut, "/api/tasks/"+created.ID, token,
		UpdateTaskRequest{Completed: boolPtr(false)}, &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, updated.Completed)

	// Re-setting the same value is an idempotent no-op
	rec = doJSON(t, s, http.MethodPut, "/api/tasks/"+created.ID, token,
		UpdateTaskRequest{Completed: boolPtr(false)}, &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, updated.Completed)

	rec = doJSON(t, s, http.MethodGet, "/api/tasks?completed=maybe", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTask_UpdateRequiresCompletedField(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "A", "a@x.com", "secret-pw")

	var created TaskResponse
	doJSON(t, s, http.MethodPost, "/api/tasks", token, CreateTaskRequest{Title: "keep me done"}, &created)

	var updated TaskResponse
	rec := doJSON(t, s, http.MethodPut, "/api/tasks/"+created.ID, token,
		UpdateTaskRequest{Completed: boolPtr(true)}, &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, updated.Completed)

	// An empty body must not silently reset the flag to false
	rec = doJSON(t, s, http.MethodPut, "/api/tasks/"+created.ID, token,
		struct{}{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var tasks []TaskResponse
	doJSON(t, s, http.MethodGet, "/api/tasks", token, nil, &tasks)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed, "rejected update must leave the task untouched")
}

func TestTask_DateFilter(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "A", "a@x.com", "secret-pw")

	// Due at noon local time on a fixed day
	day := time.Date(2026, 9, 15, 12, 0, 0, 0, time.Local)
	doJSON(t, s, http.MethodPost, "/api/tasks", token,
		CreateTaskRequest{Title: "on the day", DueDate: day.Format(time.RFC3339)}, nil)
	doJSON(t, s, http.MethodPost, "/api/tasks", token,
		CreateTaskRequest{Title: "no due date"}, nil)

	var tasks []TaskResponse
	rec := doJSON(t, s, http.MethodGet, "/api/tasks?date=2026-09-15", token, nil, &tasks)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, tasks, 1)
	assert.Equal(t, "on the day", tasks[0].Title)

	rec = doJSON(t, s, http.MethodGet, "/api/tasks?date=15-09-2026", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTask_OwnershipIsolation(t *testing.T) {
	s, _ := newTestServer(t)
	tokenA := registerUser(t, s, "A", "a@x.com", "secret-pw")
	tokenB := registerUser(t, s, "B", "b@x.com", "secret-pw")

	var bTask TaskResponse
	rec := doJSON(t, s, http.MethodPost, "/api/tasks", tokenB,
		CreateTaskRequest{Title: "b's task"}, &bTask)
	require.Equal(t, http.StatusCreated, rec.Code)

	// A cannot see B's task
	var tasks []TaskResponse
	doJSON(t, s, http.MethodGet, "/api/tasks", tokenA, nil, &tasks)
	assert.Empty(t, tasks)

	// A's update and delete on B's task are 404, not 403
	rec = doJSON(t, s, http.MethodPut, "/api/tasks/"+bTask.ID, tokenA,
		UpdateTaskRequest{Completed: boolPtr(true)}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/api/tasks/"+bTask.ID, tokenA, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// B's task is unchanged
	doJSON(t, s, http.MethodGet, "/api/tasks", tokenB, nil, &tasks)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].Completed)
}

func TestTask_Delete(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "A", "a@x.com", "secret-pw")

	var created TaskResponse
	doJSON(t, s, http.MethodPost, "/api/tasks", token, CreateTaskRequest{Title: "doomed"}, &created)

	var msg MessageResponse
	rec := doJSON(t, s, http.MethodDelete, "/api/tasks/"+created.ID, token, nil, &msg)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Task deleted", msg.Message)

	rec = doJSON(t, s, http.MethodDelete, "/api/tasks/"+created.ID, token, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfile_GetAndUpdate(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "A", "a@x.com", "secret-pw")

	var profile UserResponse
	rec := doJSON(t, s, http.MethodGet, "/api/user/profile", token, nil, &profile)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A", profile.Name)

	name := "Alice"
	rec = doJSON(t, s, http.MethodPut, "/api/user/profile", token,
		UpdateProfileRequest{Name: &name}, &profile)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "a@x.com", profile.Email, "email should be unchanged")

	email := "alice@x.com"
	rec = doJSON(t, s, http.MethodPut, "/api/user/profile", token,
		UpdateProfileRequest{Email: &email}, &profile)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@x.com", profile.Email)
}

func TestProfile_UpdateValidation(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "A", "a@x.com", "secret-pw")
	registerUser(t, s, "B", "b@x.com", "secret-pw")

	bad := "not-an-email"
	rec := doJSON(t, s, http.MethodPut, "/api/user/profile", token,
		UpdateProfileRequest{Email: &bad}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	taken := "b@x.com"
	rec = doJSON(t, s, http.MethodPut, "/api/user/profile", token,
		UpdateProfileRequest{Email: &taken}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenario_RegisterLoginUnauthenticated(t *testing.T) {
	s, _ := newTestServer(t)

	// Register succeeds with a token
	token := registerUser(t, s, "A", "a@x.com", "p-secret")

	// Wrong password on the same email is rejected
	rec := doJSON(t, s, http.MethodPost, "/api/auth/login", "",
		LoginRequest{Email: "a@x.com", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// /api/tasks with no header is rejected
	rec = doJSON(t, s, http.MethodGet, "/api/tasks", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// And with the token it works
	var tasks []TaskResponse
	rec = doJSON(t, s, http.MethodGet, "/api/tasks", token, nil, &tasks)
	assert.Equal(t, http.StatusOK, rec.Code)
}
