package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/reelweek/backend/internal/models"
)

// currentSession returns the signed-in session placed in context by the JWT
// middleware. A zero session means the request is unauthenticated.
func currentSession(c echo.Context) models.Session {
	if s, ok := c.Get("session").(models.Session); ok {
		return s
	}
	return models.Session{}
}
