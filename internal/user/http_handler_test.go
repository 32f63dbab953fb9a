package user

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklibrary/internal/httpx"
	"booklibrary/internal/testutil"
)

func TestHTTPHandler_RegisterUser(t *testing.T) {
	handler := NewHTTPHandler(NewService(newMemoryRepo(t)))
	valid := map[string]string{"email": "new@example.com", "username": "newbie", "password": "Str0ng!Pass"}

	w := httptest.NewRecorder()
	handler.RegisterUser(w, testutil.NewRequest(http.MethodPost, "/api/auth/register", valid))
	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "new@example.com", resp.Data()["email"])
	assert.NotContains(t, resp.Data(), "PasswordHash")
	assert.NotContains(t, resp.Data(), "passwordHash")

	w = httptest.NewRecorder()
	handler.RegisterUser(w, testutil.NewRequest(http.MethodPost, "/api/auth/register", valid))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	handler.RegisterUser(w, testutil.NewRequest(http.MethodPost, "/api/auth/register",
		map[string]string{"email": "bad", "username": "x", "password": "short"}))
	resp = testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.ElementsMatch(t, []string{"email", "username", "password"}, resp.FieldErrors())
}

func TestHTTPHandler_GetCurrentUser(t *testing.T) {
	svc := NewService(newMemoryRepo(t))
	handler := NewHTTPHandler(svc)
	u, err := svc.Register(t.Context(), RegisterInput{Email: "me@example.com", Username: "reader", Password: "Str0ng!Pass"})
	require.NoError(t, err)

	req := testutil.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(httpx.ContextWithPrincipal(req.Context(), httpx.Principal{ID: u.ID}))
	w := httptest.NewRecorder()
	handler.GetCurrentUser(w, req)

	resp := testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "reader", resp.Data()["username"])

	w = httptest.NewRecorder()
	handler.GetCurrentUser(w, testutil.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
