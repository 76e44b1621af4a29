package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProfileHandler handles profile and onboarding HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileResponse represents the profile response
type ProfileResponse struct {
	Name             string `json:"name"`
	Country          string `json:"country"`
	Currency         string `json:"currency"`
	CurrencySymbol   string `json:"currencySymbol"`
	MonthlyIncome    string `json:"monthlyIncome"`
	MonthlyExpenses  string `json:"monthlyExpenses"`
	DisposableIncome string `json:"disposableIncome"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

// SaveProfileRequest represents the save profile request
type SaveProfileRequest struct {
	Name            string `json:"name"`
	Country         string `json:"country"`
	Currency        string `json:"currency"`
	CurrencySymbol  string `json:"currencySymbol"`
	MonthlyIncome   string `json:"monthlyIncome"`
	MonthlyExpenses string `json:"monthlyExpenses"`
}

// AmountRequest represents a request carrying a single amount
type AmountRequest struct {
	Amount string `json:"amount"`
}

// OnboardingRequest represents the onboarding answers
type OnboardingRequest struct {
	Name            string `json:"name"`
	CountryCode     string `json:"countryCode"`
	MonthlyIncome   string `json:"monthlyIncome"`
	MonthlyExpenses string `json:"monthlyExpenses"`
}

// RecommendationResponse represents a suggested daily saving
type RecommendationResponse struct {
	Style            string `json:"style"`
	DisposableIncome string `json:"disposableIncome"`
	DailyAmount      string `json:"dailyAmount"`
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profile, err := h.profileService.GetProfile()
	if err != nil {
		return handleServiceError(c, err, "Failed to get profile")
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// SaveProfile handles PUT /profile
func (h *ProfileHandler) SaveProfile(c echo.Context) error {
	var req SaveProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	income, ok := optionalAmount(req.MonthlyIncome)
	if !ok {
		return invalidField(c, "monthlyIncome", "Must be a valid decimal number")
	}
	expenses, ok := optionalAmount(req.MonthlyExpenses)
	if !ok {
		return invalidField(c, "monthlyExpenses", "Must be a valid decimal number")
	}

	profile, err := h.profileService.SaveProfile(service.SaveProfileInput{
		Name:            req.Name,
		Country:         req.Country,
		Currency:        req.Currency,
		CurrencySymbol:  req.CurrencySymbol,
		MonthlyIncome:   income,
		MonthlyExpenses: expenses,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to save profile")
	}

	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// UpdateMonthlyIncome handles PATCH /profile/income
func (h *ProfileHandler) UpdateMonthlyIncome(c echo.Context) error {
	return h.updateAmount(c, h.profileService.UpdateMonthlyIncome, "Failed to update monthly income")
}

// UpdateMonthlyExpenses handles PATCH /profile/expenses
func (h *ProfileHandler) UpdateMonthlyExpenses(c echo.Context) error {
	return h.updateAmount(c, h.profileService.UpdateMonthlyExpenses, "Failed to update monthly expenses")
}

func (h *ProfileHandler) updateAmount(c echo.Context, update func(decimal.Decimal) (*domain.UserProfile, error), failure string) error {
	var req AmountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return invalidField(c, "amount", "Must be a valid decimal number")
	}

	profile, err := update(amount)
	if err != nil {
		return handleServiceError(c, err, failure)
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// DeleteProfile handles DELETE /profile
func (h *ProfileHandler) DeleteProfile(c echo.Context) error {
	if err := h.profileService.DeleteProfile(); err != nil {
		return handleServiceError(c, err, "Failed to delete profile")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetRecommendation handles GET /profile/recommendation?style=
func (h *ProfileHandler) GetRecommendation(c echo.Context) error {
	style := domain.SavingStyle(c.QueryParam("style"))

	rec, err := h.profileService.RecommendedDailySaving(style)
	if err != nil {
		return handleServiceError(c, err, "Failed to compute recommendation")
	}

	return c.JSON(http.StatusOK, RecommendationResponse{
		Style:            string(rec.Style),
		DisposableIncome: rec.DisposableIncome.StringFixed(2),
		DailyAmount:      rec.DailyAmount.StringFixed(2),
	})
}

// CompleteOnboarding handles POST /onboarding
func (h *ProfileHandler) CompleteOnboarding(c echo.Context) error {
	var req OnboardingRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	income, ok := optionalAmount(req.MonthlyIncome)
	if !ok {
		return invalidField(c, "monthlyIncome", "Must be a valid decimal number")
	}
	expenses, ok := optionalAmount(req.MonthlyExpenses)
	if !ok {
		return invalidField(c, "monthlyExpenses", "Must be a valid decimal number")
	}

	profile, err := h.profileService.CompleteOnboarding(service.CompleteOnboardingInput{
		Name:            req.Name,
		CountryCode:     req.CountryCode,
		MonthlyIncome:   income,
		MonthlyExpenses: expenses,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to complete onboarding")
	}

	log.Info().Str("country", req.CountryCode).Msg("Onboarding request completed")
	return c.JSON(http.StatusCreated, toProfileResponse(profile))
}

// optionalAmount parses an amount where an empty value means zero
func optionalAmount(value string) (decimal.Decimal, bool) {
	if value == "" {
		return decimal.Zero, true
	}
	amount, err := parseAmount(value)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

func toProfileResponse(p *domain.UserProfile) ProfileResponse {
	return ProfileResponse{
		Name:             p.Name,
		Country:          p.Country,
		Currency:         p.Currency,
		CurrencySymbol:   p.CurrencySymbol,
		MonthlyIncome:    p.MonthlyIncome.StringFixed(2),
		MonthlyExpenses:  p.MonthlyExpenses.StringFixed(2),
		DisposableIncome: p.DisposableIncome().StringFixed(2),
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        p.UpdatedAt.Format(time.RFC3339),
	}
}
