package service

import (
	"fmt"
	"strings"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProfileService handles profile-related business logic
type ProfileService struct {
	profileRepo  domain.ProfileRepository
	settingsRepo domain.SettingsRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo domain.ProfileRepository, settingsRepo domain.SettingsRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, settingsRepo: settingsRepo}
}

// GetProfile retrieves the user's profile
func (s *ProfileService) GetProfile() (*domain.UserProfile, error) {
	return s.profileRepo.Get()
}

// SaveProfileInput contains input for creating or replacing the profile
type SaveProfileInput struct {
	Name            string
	Country         string
	Currency        string
	CurrencySymbol  string
	MonthlyIncome   decimal.Decimal
	MonthlyExpenses decimal.Decimal
}

// SaveProfile creates the profile or replaces the existing one.
// A missing currency symbol is looked up from the currency code.
func (s *ProfileService) SaveProfile(input SaveProfileInput) (*domain.UserProfile, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if input.MonthlyIncome.IsNegative() || input.MonthlyExpenses.IsNegative() {
		return nil, fmt.Errorf("%w: income and expenses cannot be negative", domain.ErrValidation)
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	symbol := strings.TrimSpace(input.CurrencySymbol)
	if symbol == "" {
		symbol = domain.CurrencySymbol(currency)
	}

	return s.profileRepo.Save(&domain.UserProfile{
		ID:              domain.ProfileID,
		Name:            name,
		Country:         strings.TrimSpace(input.Country),
		Currency:        currency,
		CurrencySymbol:  symbol,
		MonthlyIncome:   input.MonthlyIncome,
		MonthlyExpenses: input.MonthlyExpenses,
	})
}

// UpdateMonthlyIncome sets the monthly income
func (s *ProfileService) UpdateMonthlyIncome(amount decimal.Decimal) (*domain.UserProfile, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: income cannot be negative", domain.ErrValidation)
	}
	return s.profileRepo.UpdateMonthlyIncome(amount)
}

// UpdateMonthlyExpenses sets the monthly expenses
func (s *ProfileService) UpdateMonthlyExpenses(amount decimal.Decimal) (*domain.UserProfile, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: expenses cannot be negative", domain.ErrValidation)
	}
	return s.profileRepo.UpdateMonthlyExpenses(amount)
}

// DeleteProfile removes the profile
func (s *ProfileService) DeleteProfile() error {
	return s.profileRepo.Delete()
}

// GetDisposableIncome returns income minus expenses, floored at zero
func (s *ProfileService) GetDisposableIncome() (decimal.Decimal, error) {
	profile, err := s.profileRepo.Get()
	if err != nil {
		return decimal.Zero, err
	}
	return profile.DisposableIncome(), nil
}

// Recommendation is a suggested daily saving for a saving style
type Recommendation struct {
	Style            domain.SavingStyle `json:"style"`
	DisposableIncome decimal.Decimal    `json:"disposableIncome"`
	DailyAmount      decimal.Decimal    `json:"dailyAmount"`
}

// RecommendedDailySaving suggests a daily amount for the style.
// An empty style means balanced; any other unknown style is rejected.
func (s *ProfileService) RecommendedDailySaving(style domain.SavingStyle) (*Recommendation, error) {
	if style == "" {
		style = domain.SavingStyleBalanced
	}
	if !style.IsValid() {
		return nil, domain.ErrInvalidSavingStyle
	}

	disposable, err := s.GetDisposableIncome()
	if err != nil {
		return nil, err
	}

	return &Recommendation{
		Style:            style,
		DisposableIncome: disposable,
		DailyAmount:      domain.RecommendedDailySaving(disposable, style).Round(2),
	}, nil
}

// CompleteOnboardingInput contains the answers from onboarding
type CompleteOnboardingInput struct {
	Name            string
	CountryCode     string
	MonthlyIncome   decimal.Decimal
	MonthlyExpenses decimal.Decimal
}

// CompleteOnboarding saves the profile for the chosen country and marks onboarding complete
func (s *ProfileService) CompleteOnboarding(input CompleteOnboardingInput) (*domain.UserProfile, error) {
	country, ok := domain.CountryByCode(input.CountryCode)
	if !ok {
		return nil, domain.ErrUnknownCountry
	}

	profile, err := s.SaveProfile(SaveProfileInput{
		Name:            input.Name,
		Country:         country.Name,
		Currency:        country.Currency,
		CurrencySymbol:  country.CurrencySymbol,
		MonthlyIncome:   input.MonthlyIncome,
		MonthlyExpenses: input.MonthlyExpenses,
	})
	if err != nil {
		return nil, err
	}

	settings := domain.Settings{
		IsOnboardingComplete: true,
		UserName:             profile.Name,
		UserCountry:          country.Code,
		UserCurrency:         country.Currency,
		CurrencySymbol:       country.CurrencySymbol,
	}
	if err := s.settingsRepo.SetMany(settings.Map()); err != nil {
		log.Error().Err(err).Msg("Failed to store onboarding settings")
		return nil, err
	}

	log.Info().Str("country", country.Code).Str("currency", country.Currency).Msg("Onboarding completed")
	return profile, nil
}
