package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/middleware"
	"github.com/iliyamo/user-auth-service/internal/service"
)

// UserHandler exposes the protected profile endpoints. All of them
// operate on the identity the Authenticate middleware attached to
// the request; the handlers never accept a user id from the client.
type UserHandler struct {
	Cfg   config.Config
	Users *service.UserService
	Log   *zap.Logger
}

func NewUserHandler(cfg config.Config, users *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, Log: log}
}

// GetProfile returns the caller's profile without the password hash.
func (h *UserHandler) GetProfile(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, Envelope{Status: "error", Message: "unauthorized"})
	}
	user, err := h.Users.GetProfile(c.Request().Context(), ident.UserID)
	if err != nil {
		return respondError(c, h.Cfg, h.Log, err)
	}
	return respondSuccess(c, http.StatusOK, "user profile retrieved successfully", echo.Map{"user": user})
}

// UpdateProfile applies a partial update to the caller's profile.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, Envelope{Status: "error", Message: "unauthorized"})
	}
	var in service.UpdateProfileInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Status: "error", Message: "invalid request body"})
	}
	user, err := h.Users.UpdateProfile(c.Request().Context(), ident.UserID, in)
	if err != nil {
		return respondError(c, h.Cfg, h.Log, err)
	}
	return respondSuccess(c, http.StatusOK, "user profile updated successfully", echo.Map{"user": user})
}

// ChangePassword swaps the caller's password after verifying the
// current one.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, Envelope{Status: "error", Message: "unauthorized"})
	}
	var in service.ChangePasswordInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, Envelope{Status: "error", Message: "invalid request body"})
	}
	if err := h.Users.ChangePassword(c.Request().Context(), ident.UserID, in); err != nil {
		return respondError(c, h.Cfg, h.Log, err)
	}
	return respondSuccess(c, http.StatusOK, "password changed successfully", nil)
}
