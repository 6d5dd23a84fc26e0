// Package middleware provides the request-processing chain shared
// by protected routes: access-token verification, role checks and
// rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-service/internal/model"
	"github.com/iliyamo/user-auth-service/internal/utils"
)

// identityKey is the context key the verified identity is stored
// under. Handlers retrieve it through CurrentIdentity only.
const identityKey = "identity"

// Authenticate returns an Echo middleware that validates a Bearer
// access token and threads the verified identity through the
// request context as an explicit value. Missing, malformed,
// expired and unverifiable tokens all collapse into the same 401;
// verification internals never leak to the client.
func Authenticate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			ident, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return unauthorized(c, "invalid or expired token")
			}
			c.Set(identityKey, ident)
			return next(c)
		}
	}
}

// CurrentIdentity returns the identity attached by Authenticate.
// The second result is false when the middleware did not run, which
// on a protected route means the chain is misordered.
func CurrentIdentity(c echo.Context) (model.Identity, bool) {
	ident, ok := c.Get(identityKey).(model.Identity)
	return ident, ok
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"status":  "error",
		"message": msg,
	})
}
