package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge-lms/skillforge/internal/auth"
	"github.com/skillforge-lms/skillforge/internal/gate"
	"github.com/skillforge-lms/skillforge/internal/shared"
	"github.com/skillforge-lms/skillforge/internal/view"
)

const (
	cookieName = "test_session"
	authSecret = "handler-test-secret"
)

type captureAudit struct {
	userID int64
	jti    string
	calls  int
}

func (c *captureAudit) EnqueueLoginAudit(ctx context.Context, userID int64, email, ip, ua, jti string) error {
	c.userID = userID
	c.jti = jti
	c.calls++
	return nil
}

type authFixture struct {
	router   chi.Router
	gate     *gate.Gate
	registry *auth.SessionRegistry
	redis    *miniredis.Miniredis
	audit    *captureAudit
}

func newAuthFixture(t *testing.T, repo auth.Repository) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	codec := gate.NewCodec(authSecret, time.Hour, 0)
	classifier := gate.NewClassifier(gate.DefaultBypassPrefixes)
	g := gate.New(logger, codec, classifier, cookieName, false)
	csrf := shared.NewCSRFManager("csrf-secret", false)
	registry := auth.NewSessionRegistry(client, time.Hour)
	audit := &captureAudit{}

	templates, err := view.NewEngine()
	require.NoError(t, err)

	handler := auth.NewHandler(logger, auth.NewService(repo), templates, g, csrf, registry, audit)
	router := chi.NewRouter()
	handler.MountRoutes(router)

	return &authFixture{router: router, gate: g, registry: registry, redis: mr, audit: audit}
}

func postForm(t *testing.T, router chi.Router, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func sessionCookie(t *testing.T, res *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range res.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

func companyAdminRepo(t *testing.T) *stubRepo {
	t.Helper()
	return &stubRepo{user: &auth.User{
		ID:           3,
		Email:        "admin@acme.test",
		Name:         "Acme Admin",
		PasswordHash: hashOf(t, "correct-horse"),
		Role:         gate.RoleCompanyAdmin,
		CompanyID:    "c-1",
		IsActive:     true,
	}}
}

func TestLoginPageRenders(t *testing.T) {
	fixture := newAuthFixture(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	res := httptest.NewRecorder()
	fixture.router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "<form")
	assert.Contains(t, res.Body.String(), shared.CSRFFormField)
}

func TestLoginSuccessEstablishesSession(t *testing.T) {
	fixture := newAuthFixture(t, companyAdminRepo(t))

	res := postForm(t, fixture.router, "/login", url.Values{
		"email":    {"admin@acme.test"},
		"password": {"correct-horse"},
	})

	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/dashboard/company", res.Header().Get("Location"))

	cookie := sessionCookie(t, res)
	require.NotNil(t, cookie, "session cookie must be set")
	assert.True(t, cookie.HttpOnly)

	principal, err := fixture.gate.Codec().Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "3", principal.SubjectID)
	assert.Equal(t, gate.RoleCompanyAdmin, principal.Role)
	assert.Equal(t, "c-1", principal.CompanyID)

	// Registry and audit bookkeeping both saw the login.
	require.Equal(t, 1, fixture.audit.calls)
	assert.Equal(t, int64(3), fixture.audit.userID)
	active, err := fixture.registry.Active(context.Background(), fixture.audit.jti)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestLoginInvalidCredentials(t *testing.T) {
	fixture := newAuthFixture(t, companyAdminRepo(t))

	res := postForm(t, fixture.router, "/login", url.Values{
		"email":    {"admin@acme.test"},
		"password": {"wrong-password"},
	})

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Invalid email or password")
	assert.Nil(t, sessionCookie(t, res))
	assert.Zero(t, fixture.audit.calls)
}

func TestLoginValidationFailure(t *testing.T) {
	fixture := newAuthFixture(t, companyAdminRepo(t))

	res := postForm(t, fixture.router, "/login", url.Values{
		"email":    {"not-an-email"},
		"password": {"short"},
	})

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Nil(t, sessionCookie(t, res))
}

func TestRegisterCreatesAndSignsIn(t *testing.T) {
	repo := &stubRepo{companies: map[string]bool{"c-1": true}, nextID: 11}
	fixture := newAuthFixture(t, repo)

	res := postForm(t, fixture.router, "/register", url.Values{
		"company_id": {"c-1"},
		"name":       {"jane doe"},
		"email":      {"jane@acme.test"},
		"password":   {"longenoughpw"},
	})

	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/dashboard/learn", res.Header().Get("Location"))
	require.NotNil(t, repo.created)
	assert.Equal(t, gate.RoleStaff, repo.created.Role)

	cookie := sessionCookie(t, res)
	require.NotNil(t, cookie)
	principal, err := fixture.gate.Codec().Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, gate.RoleStaff, principal.Role)
}

func TestRegisterUnknownCompanyRendersError(t *testing.T) {
	fixture := newAuthFixture(t, &stubRepo{companies: map[string]bool{}})

	res := postForm(t, fixture.router, "/register", url.Values{
		"company_id": {"c-404"},
		"name":       {"Jane"},
		"email":      {"jane@acme.test"},
		"password":   {"longenoughpw"},
	})

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Unknown company")
	assert.Nil(t, sessionCookie(t, res))
}

func TestLogoutClearsCookieAndRegistry(t *testing.T) {
	fixture := newAuthFixture(t, companyAdminRepo(t))

	login := postForm(t, fixture.router, "/login", url.Values{
		"email":    {"admin@acme.test"},
		"password": {"correct-horse"},
	})
	cookie := sessionCookie(t, login)
	require.NotNil(t, cookie)

	res := postForm(t, fixture.router, "/logout", url.Values{}, cookie)

	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/login", res.Header().Get("Location"))

	cleared := sessionCookie(t, res)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	active, err := fixture.registry.Active(context.Background(), fixture.audit.jti)
	require.NoError(t, err)
	assert.False(t, active)
}
