package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-service/internal/model"
)

// RequireRole enforces that the authenticated identity satisfies
// the given minimum role. The implication rule lives in the
// model's role-grants table, with admin as the super-role that
// passes every check. A request that reaches this middleware
// without an identity is a chain-ordering violation and is
// rejected with 401 rather than 403.
func RequireRole(minRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := CurrentIdentity(c)
			if !ok {
				return unauthorized(c, "unauthorized")
			}
			if !model.Allows(ident.Role, minRole) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"status":  "error",
					"message": "insufficient permissions",
				})
			}
			return next(c)
		}
	}
}
