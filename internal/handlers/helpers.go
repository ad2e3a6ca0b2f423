package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/kinectapp/kinect/internal/auth"
)

// requireUserID extracts the authenticated user id or returns a 401 error.
func requireUserID(c echo.Context) (string, error) {
	return auth.UserIDFromContext(c)
}
