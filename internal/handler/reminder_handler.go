package handler

import (
	"net/http"

	"github.com/dafibh/coinspot/coinspot-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// ReminderChecker runs one reminder check
type ReminderChecker interface {
	CheckAndNotify() service.ReminderResult
}

// ReminderHandler lets clients trigger a reminder check on demand
type ReminderHandler struct {
	checker ReminderChecker
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(checker ReminderChecker) *ReminderHandler {
	return &ReminderHandler{checker: checker}
}

// ReminderCheckResponse represents the outcome of a reminder check
type ReminderCheckResponse struct {
	Result string `json:"result"`
}

// CheckReminder godoc
// @Summary Run the daily saving reminder check now
// @Tags reminders
// @Produce json
// @Success 200 {object} ReminderCheckResponse
// @Failure 503 {object} ReminderCheckResponse
// @Router /reminders/check [post]
func (h *ReminderHandler) CheckReminder(c echo.Context) error {
	result := h.checker.CheckAndNotify()
	status := http.StatusOK
	if result != service.ReminderSuccess {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, ReminderCheckResponse{Result: string(result)})
}
