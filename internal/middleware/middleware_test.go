package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/model"
	"github.com/iliyamo/user-auth-service/internal/utils"
)

const testSecret = "test-secret"

func runProtected(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/profile", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	require.NoError(t, h(c))
	return rec
}

func bearerFor(t *testing.T, ident model.Identity) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, ident, 15)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func TestAuthenticateMissingToken(t *testing.T) {
	rec := runProtected(t, "", Authenticate(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	rec := runProtected(t, "Bearer not-a-jwt", Authenticate(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", model.Identity{UserID: "u1", Role: model.RoleUser}, 15)
	require.NoError(t, err)
	rec := runProtected(t, "Bearer "+tok.Token, Authenticate(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	ident := model.Identity{UserID: "u1", Email: "alice@example.com", Role: model.RoleUser}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearerFor(t, ident))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got model.Identity
	h := Authenticate(testSecret)(func(c echo.Context) error {
		var ok bool
		got, ok = CurrentIdentity(c)
		require.True(t, ok)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ident, got)
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	// Chain-ordering violation: RequireRole without Authenticate
	// answers 401, not 403.
	rec := runProtected(t, "", RequireRole(model.RoleUser))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleMatrix(t *testing.T) {
	cases := []struct {
		role    string
		minRole string
		want    int
	}{
		{model.RoleAdmin, model.RoleUser, http.StatusOK},
		{model.RoleAdmin, "editor", http.StatusOK},
		{model.RoleAdmin, model.RoleAdmin, http.StatusOK},
		{model.RoleUser, model.RoleUser, http.StatusOK},
		{model.RoleUser, "editor", http.StatusForbidden},
		{model.RoleUser, model.RoleAdmin, http.StatusForbidden},
	}
	for _, tc := range cases {
		ident := model.Identity{UserID: "u1", Email: "x@example.com", Role: tc.role}
		rec := runProtected(t, bearerFor(t, ident), Authenticate(testSecret), RequireRole(tc.minRole))
		assert.Equal(t, tc.want, rec.Code, "role=%s min=%s", tc.role, tc.minRole)
	}
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	// No Redis client: the limiter must degrade to a no-op.
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1}
	rec := runProtected(t, "", RateLimit(cfg, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
