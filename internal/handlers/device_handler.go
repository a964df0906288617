package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/reelweek/backend/internal/models"
	"github.com/reelweek/backend/internal/repositories"
)

// DeviceHandler handles device token registration
type DeviceHandler struct {
	tokenRepository repositories.DeviceTokenRepository
}

// NewDeviceHandler creates a new DeviceHandler
func NewDeviceHandler(tokenRepo repositories.DeviceTokenRepository) *DeviceHandler {
	return &DeviceHandler{tokenRepository: tokenRepo}
}

// RegisterDeviceRoutes registers device-related routes
func (h *DeviceHandler) RegisterDeviceRoutes(g *echo.Group) {
	g.PUT("/devices/token", h.RegisterToken)
	g.DELETE("/devices/token", h.UnregisterToken)
}

// RegisterToken stores the caller's latest push token. The platform rotates
// tokens; every registration simply overwrites the previous one.
func (h *DeviceHandler) RegisterToken(c echo.Context) error {
	session := currentSession(c)
	if session.UserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.RegisterDeviceTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.tokenRepository.Upsert(session.UserID, req.Token); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UnregisterToken removes the caller's push token
func (h *DeviceHandler) UnregisterToken(c echo.Context) error {
	session := currentSession(c)
	if session.UserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.tokenRepository.Delete(session.UserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
