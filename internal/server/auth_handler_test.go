package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, h http.Handler, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var raw []byte
	switch b := body.(type) {
	case nil:
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:1234"
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestSignupThenSignin(t *testing.T) {
	s := newTestServer(t, newFakeDB(), nil)

	w := doJSON(t, s.Handler(), http.MethodPost, "/signup", types.CreateUserRequest{Name: "A", Email: "a@b.com", Password: "x"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, decodeBody[types.SignupResponse](t, w).Message)

	w = doJSON(t, s.Handler(), http.MethodPost, "/signin", types.LoginRequest{Email: "a@b.com", Password: "x"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[types.LoginResponse](t, w)
	assert.NotEmpty(t, resp.Token)

	claims, err := s.jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)

	w = doJSON(t, s.Handler(), http.MethodGet, "/api/me", nil, "Authorization", "Bearer "+resp.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	me := decodeBody[types.User](t, w)
	assert.Equal(t, claims.UserID, me.ID)
	assert.Equal(t, "a@b.com", me.Email)
	assert.True(t, me.PasswordSet)
}

func TestSignup_Errors(t *testing.T) {
	database := newFakeDB()
	s := newTestServer(t, database, nil)

	w := doJSON(t, s.Handler(), http.MethodPost, "/signup", types.CreateUserRequest{Name: "A", Email: "a@b.com", Password: "x"})
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name string
		body any
		want string
	}{
		{"invalid json", "not json", "Invalid request body"},
		{"missing name", map[string]string{"email": "c@d.com", "password": "pw"}, "Name"},
		{"missing email", map[string]string{"name": "C", "password": "pw"}, "Email"},
		{"invalid email", map[string]string{"name": "C", "email": "nope", "password": "pw"}, "Email"},
		{"missing password", map[string]string{"name": "C", "email": "c@d.com"}, "Password"},
		{"password over bcrypt limit", map[string]string{"name": "C", "email": "c@d.com", "password": strings.Repeat("p", 80)}, "Password - max"},
		{"duplicate email", types.CreateUserRequest{Name: "B", Email: "A@B.com", Password: "y"}, "already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s.Handler(), http.MethodPost, "/signup", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeBody[map[string]string](t, w)["error"], tt.want)
		})
	}
	assert.Len(t, database.users, 1)
}

func TestSignin_InvalidCredentials(t *testing.T) {
	s := newTestServer(t, newFakeDB(), nil)
	w := doJSON(t, s.Handler(), http.MethodPost, "/signup", types.CreateUserRequest{Name: "A", Email: "a@b.com", Password: "right"})
	require.Equal(t, http.StatusCreated, w.Code)

	for _, req := range []types.LoginRequest{
		{Email: "a@b.com", Password: "wrong"},
		{Email: "nobody@b.com", Password: "right"},
	} {
		w := doJSON(t, s.Handler(), http.MethodPost, "/signin", req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid email or password", decodeBody[map[string]string](t, w)["error"])
	}
}

func TestSignin_GoogleAccountHasNoPassword(t *testing.T) {
	s := newTestServer(t, newFakeDB(), nil)

	w := doJSON(t, s.Handler(), http.MethodPost, "/auth/google", types.GoogleLoginRequest{Credential: "good-credential"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s.Handler(), http.MethodPost, "/signin", types.LoginRequest{Email: "ada@example.com", Password: "anything"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuth_NoDatabase(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := doJSON(t, s.Handler(), http.MethodPost, "/signup", types.CreateUserRequest{Name: "A", Email: "a@b.com", Password: "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decodeBody[map[string]string](t, w)["error"])

	w = doJSON(t, s.Handler(), http.MethodPost, "/signin", types.LoginRequest{Email: "a@b.com", Password: "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGoogleLogin(t *testing.T) {
	database := newFakeDB()
	s := newTestServer(t, database, nil)

	w := doJSON(t, s.Handler(), http.MethodPost, "/auth/google", types.GoogleLoginRequest{Credential: "good-credential"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[types.GoogleLoginResponse](t, w)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "Ada Lovelace", resp.User.Name)
	assert.Equal(t, "https://example.com/ada.png", resp.User.Picture)
	assert.False(t, resp.User.PasswordSet)

	// second sign-in reuses the account
	w = doJSON(t, s.Handler(), http.MethodPost, "/auth/google", types.GoogleLoginRequest{Credential: "good-credential"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, resp.User.ID, decodeBody[types.GoogleLoginResponse](t, w).User.ID)
	assert.Len(t, database.users, 1)

	w = doJSON(t, s.Handler(), http.MethodPost, "/auth/google", types.GoogleLoginRequest{Credential: "forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, s.Handler(), http.MethodPost, "/auth/google", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe_RequiresToken(t *testing.T) {
	s := newTestServer(t, newFakeDB(), nil)

	w := doJSON(t, s.Handler(), http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, s.Handler(), http.MethodGet, "/api/me", nil, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_DeletedUser(t *testing.T) {
	s := newTestServer(t, newFakeDB(), nil)
	token, err := s.jwtService.GenerateToken(uuid.New())
	require.NoError(t, err)

	w := doJSON(t, s.Handler(), http.MethodGet, "/api/me", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
