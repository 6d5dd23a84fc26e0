// Package router wires handlers and middleware onto the Echo
// instance. Unauthenticated credential operations live under
// /v1/auth; protected profile endpoints live under /v1/users and
// run the Authenticate and RequireRole middleware first.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/handler"
	"github.com/iliyamo/user-auth-service/internal/middleware"
	"github.com/iliyamo/user-auth-service/internal/model"
)

// Register sets up all application routes.
func Register(e *echo.Echo, cfg config.Config, a *handler.AuthHandler, u *handler.UserHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Credential endpoints are the brute-force target, so the rate
	// limiter wraps only this group.
	auth := e.Group("/v1/auth")
	auth.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	auth.POST("/register", a.Register)
	auth.POST("/login", a.Login)
	auth.POST("/refresh", a.Refresh)
	// Logout is deliberately unauthenticated: it takes the refresh
	// token in the body and is idempotent either way.
	auth.POST("/logout", a.Logout)

	users := e.Group("/v1/users")
	users.Use(middleware.Authenticate(cfg.JWTSecret))
	users.Use(middleware.RequireRole(model.RoleUser))
	users.GET("/profile", u.GetProfile)
	users.PUT("/profile", u.UpdateProfile)
	users.POST("/change-password", u.ChangePassword)
}
