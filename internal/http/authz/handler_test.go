package authz_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisnabto/despesas/internal/authz"
	authzHandler "github.com/crisnabto/despesas/internal/http/authz"
)

func newTestRouter(seed ...string) http.Handler {
	h := authzHandler.NewHandler(authz.NewGate(seed))

	r := chi.NewRouter()
	r.Route("/api/auth", h.AuthRoutes)
	r.Route("/api/admin", h.AdminRoutes)

	return r
}

func post(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestCheckAuthorization(t *testing.T) {
	router := newTestRouter("x@y.com")

	rec := post(router, "/api/auth/check-authorization", `{"email":"X@Y.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Authorized bool `json:"authorized"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Authorized)
}

func TestCheckAuthorizationDenied(t *testing.T) {
	router := newTestRouter("x@y.com")

	rec := post(router, "/api/auth/check-authorization", `{"email":"stranger@y.com"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var got struct {
		Authorized bool   `json:"authorized"`
		Message    string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Authorized)
	assert.NotEmpty(t, got.Message)
}

func TestCheckAuthorizationMissingEmail(t *testing.T) {
	router := newTestRouter("x@y.com")

	assert.Equal(t, http.StatusBadRequest, post(router, "/api/auth/check-authorization", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(router, "/api/auth/check-authorization", `not json`).Code)
}

func TestAllowListMutation(t *testing.T) {
	router := newTestRouter("x@y.com")

	rec := post(router, "/api/auth/add-email", `{"email":"New@Person.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Emails []string `json:"emails"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.ElementsMatch(t, []string{"x@y.com", "new@person.com"}, got.Emails)

	req := httptest.NewRequest(http.MethodDelete, "/api/auth/remove-email", strings.NewReader(`{"email":"x@y.com"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"new@person.com"}, got.Emails)
}

func TestAdminUsersView(t *testing.T) {
	router := newTestRouter("a@b.com")

	rec := post(router, "/api/admin/users", `{"email":"c@d.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, req)
	require.Equal(t, http.StatusOK, listRec.Code)

	var users []struct {
		Email      string `json:"email"`
		Authorized bool   `json:"authorized"`
	}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &users))
	require.Len(t, users, 2)

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/users/c@d.com", nil)
	delRec := httptest.NewRecorder()
	router.ServeHTTP(delRec, req)
	assert.Equal(t, http.StatusOK, delRec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	listRec = httptest.NewRecorder()
	router.ServeHTTP(listRec, req)
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "a@b.com", users[0].Email)
}

func TestCurrentUser(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.ID)
	assert.NotEmpty(t, got.Email)
}
