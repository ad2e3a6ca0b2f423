package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kinectapp/kinect/internal/reminders"
	"github.com/kinectapp/kinect/internal/users"
)

// RemindersHandler exposes the overdue feed, reminder stats, and the
// manual batch and test-email triggers.
type RemindersHandler struct {
	service *reminders.Service
	logger  *slog.Logger
}

func NewRemindersHandler(log *slog.Logger, service *reminders.Service) *RemindersHandler {
	return &RemindersHandler{
		service: service,
		logger:  log.With(slog.String("handler", "reminders")),
	}
}

func (h *RemindersHandler) Register(e *echo.Echo) {
	group := e.Group("/reminders")
	group.GET("/overdue", h.Overdue)
	group.GET("/stats", h.Stats)
	group.POST("/test", h.SendTest)
	group.POST("/run", h.RunBatch)
}

func (h *RemindersHandler) Overdue(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	overdue, err := h.service.AggregateOverdue(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"items": overdue})
}

func (h *RemindersHandler) Stats(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	stats, err := h.service.GetReminderStats(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *RemindersHandler) SendTest(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.SendTestReminder(c.Request().Context(), userID); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "sent"})
}

// RunBatch triggers a dispatch run outside the cron schedule. The cadence
// query parameter narrows the run to one cadence; empty means all users.
func (h *RemindersHandler) RunBatch(c echo.Context) error {
	if _, err := requireUserID(c); err != nil {
		return err
	}
	cadence := strings.TrimSpace(c.QueryParam("cadence"))
	result, err := h.service.RunBatch(c.Request().Context(), cadence)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	status := http.StatusOK
	if result.Skipped {
		status = http.StatusConflict
	}
	return c.JSON(status, result)
}
