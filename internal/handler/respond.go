// Package handler implements the HTTP endpoints. Every response
// uses one envelope shape so clients can parse success and failure
// uniformly.
package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/user-auth-service/internal/apperr"
	"github.com/iliyamo/user-auth-service/internal/config"
)

// Envelope is the wire format of every response body.
type Envelope struct {
	Status  string      `json:"status"` // "success" | "error"
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func respondSuccess(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{Status: "success", Message: message, Data: data})
}

// respondError maps a classified error to its fixed status code
// and a safe message. Domain errors pass through with their own
// message; anything unexpected became Internal in apperr.From and
// is logged here. In prod the internal message stays generic; in
// dev the underlying cause is surfaced to ease debugging.
func respondError(c echo.Context, cfg config.Config, log *zap.Logger, err error) error {
	ae := apperr.From(err)
	msg := ae.Message
	if ae.Status >= 500 {
		log.Error("request failed",
			zap.String("path", c.Path()),
			zap.String("method", c.Request().Method),
			zap.Error(err))
		if !cfg.IsProd() && ae.Cause() != nil {
			msg = ae.Cause().Error()
		}
	}
	return c.JSON(ae.Status, Envelope{Status: "error", Message: msg})
}
