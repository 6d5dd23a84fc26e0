package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/service"
)

// AuthHandler exposes the unauthenticated credential endpoints:
// register, login, refresh and logout.
type AuthHandler struct {
	Cfg   config.Config
	Users *service.UserService
	Auth  *service.AuthService
	Log   *zap.Logger
}

func NewAuthHandler(cfg config.Config, users *service.UserService, auth *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Auth: auth, Log: log}
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

// authData is the payload returned by register and login.
type authData struct {
	User   interface{}       `json:"user"`
	Tokens service.TokenPair `json:"tokens"`
}

// Register creates an account and logs it straight in.
func (h *AuthHandler) Register(c echo.Context) error {
	var in service.RegisterInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Status: "error", Message: "invalid request body"})
	}
	user, pair, err := h.Users.Register(c.Request().Context(), in)
	if err != nil {
		return respondError(c, h.Cfg, h.Log, err)
	}
	return respondSuccess(c, http.StatusCreated, "user registered successfully", authData{User: user, Tokens: pair})
}

// Login verifies credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var in service.LoginInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Status: "error", Message: "invalid request body"})
	}
	user, pair, err := h.Auth.Login(c.Request().Context(), in)
	if err != nil {
		return respondError(c, h.Cfg, h.Log, err)
	}
	return respondSuccess(c, http.StatusOK, "login successful", authData{User: user, Tokens: pair})
}

// Refresh rotates a refresh token: the presented token is revoked
// and a brand-new pair is returned. A missing token is a 400; an
// unknown, revoked or expired one is a 401.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, Envelope{Status: "error", Message: "refresh token is required"})
	}
	pair, err := h.Auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return respondError(c, h.Cfg, h.Log, err)
	}
	return respondSuccess(c, http.StatusOK, "token refreshed successfully", pair)
}

// Logout revokes the presented refresh token. It is idempotent
// and never fails visibly: no token, an unknown token and an
// already-revoked token all report success.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req) // absent or malformed body is still a successful logout
	if err := h.Auth.Revoke(c.Request().Context(), req.RefreshToken); err != nil {
		return respondError(c, h.Cfg, h.Log, err)
	}
	return respondSuccess(c, http.StatusOK, "logout successful", nil)
}
