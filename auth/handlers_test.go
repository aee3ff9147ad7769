package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandlers(t *testing.T) (*Handlers, *Service) {
	t.Helper()
	svc, _ := newTestService(time.Hour)
	return NewHandlers(svc), svc
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, handler http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleRegister(t *testing.T) {
	t.Parallel()

	handlers, _ := newTestHandlers(t)
	rec := postJSON(t, handlers.HandleRegister(), `{"username":"alice","password":"password123"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "user", body["role"])
	// The password digest must never appear in a response.
	_, leaked := body["hashed_password"]
	assert.False(t, leaked)
	assert.NotContains(t, rec.Body.String(), "password123")
}

func TestHandleRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	handlers, _ := newTestHandlers(t)
	rec := postJSON(t, handlers.HandleRegister(), `{"username":"alice","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, handlers.HandleRegister(), `{"username":"alice","password":"otherpassword"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already registered")
}

func TestHandleRegister_InvalidBody(t *testing.T) {
	t.Parallel()

	handlers, _ := newTestHandlers(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"username":`},
		{"unknown field", `{"username":"alice","password":"password123","extra":true}`},
		{"short password", `{"username":"alice","password":"short"}`},
		{"short username", `{"username":"ab","password":"password123"}`},
		{"bad role", `{"username":"alice","password":"password123","role":"superadmin"}`},
		{"empty body", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handlers.HandleRegister(), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleLogin(t *testing.T) {
	t.Parallel()

	handlers, _ := newTestHandlers(t)
	rec := postJSON(t, handlers.HandleRegister(), `{"username":"bob","password":"bobs-password"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postForm(t, handlers.HandleLogin(), url.Values{
		"username": {"bob"},
		"password": {"bobs-password"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	handlers, _ := newTestHandlers(t)
	rec := postJSON(t, handlers.HandleRegister(), `{"username":"bob","password":"bobs-password"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postForm(t, handlers.HandleLogin(), url.Values{
		"username": {"bob"},
		"password": {"not-the-password"},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Contains(t, rec.Body.String(), "incorrect username or password")
}

func TestHandleLogin_MissingFields(t *testing.T) {
	t.Parallel()

	handlers, _ := newTestHandlers(t)

	rec := postForm(t, handlers.HandleLogin(), url.Values{"username": {"bob"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postForm(t, handlers.HandleLogin(), url.Values{"password": {"whatever"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
