package handler

import (
	"net/http"

	"github.com/dafibh/coinspot/coinspot-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// SettingsHandler handles app settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the update settings request; omitted fields are unchanged
type UpdateSettingsRequest struct {
	IsOnboardingComplete *bool   `json:"isOnboardingComplete,omitempty"`
	UserName             *string `json:"userName,omitempty"`
	UserCountry          *string `json:"userCountry,omitempty"`
	UserCurrency         *string `json:"userCurrency,omitempty"`
	CurrencySymbol       *string `json:"currencySymbol,omitempty"`
}

// GetSettings handles GET /settings
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings, err := h.settingsService.Get()
	if err != nil {
		return handleServiceError(c, err, "Failed to get settings")
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /settings
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	settings, err := h.settingsService.Update(service.UpdateSettingsInput{
		IsOnboardingComplete: req.IsOnboardingComplete,
		UserName:             req.UserName,
		UserCountry:          req.UserCountry,
		UserCurrency:         req.UserCurrency,
		CurrencySymbol:       req.CurrencySymbol,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to update settings")
	}
	return c.JSON(http.StatusOK, settings)
}

// ClearSettings handles DELETE /settings
func (h *SettingsHandler) ClearSettings(c echo.Context) error {
	if err := h.settingsService.Clear(); err != nil {
		return handleServiceError(c, err, "Failed to clear settings")
	}
	return c.NoContent(http.StatusNoContent)
}
