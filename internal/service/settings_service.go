package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
)

// SettingsService reads and writes the key/value user settings
type SettingsService struct {
	settingsRepo domain.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo domain.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// Get returns the typed settings with defaults applied
func (s *SettingsService) Get() (*domain.Settings, error) {
	values, err := s.settingsRepo.GetAll()
	if err != nil {
		return nil, err
	}
	settings := domain.SettingsFromMap(values)
	return &settings, nil
}

// GetValue returns a single raw setting
func (s *SettingsService) GetValue(key string) (string, bool, error) {
	return s.settingsRepo.Get(key)
}

// IsOnboardingComplete reports whether onboarding has been finished
func (s *SettingsService) IsOnboardingComplete() (bool, error) {
	v, ok, err := s.settingsRepo.Get(domain.SettingOnboardingComplete)
	if err != nil || !ok {
		return false, err
	}
	done, _ := strconv.ParseBool(v)
	return done, nil
}

// UpdateSettingsInput holds the settings to change; nil fields are left unchanged
type UpdateSettingsInput struct {
	IsOnboardingComplete *bool
	UserName             *string
	UserCountry          *string
	UserCurrency         *string
	CurrencySymbol       *string
}

// Update writes the given settings in one batch.
// Changing the currency without a symbol also updates the symbol from the catalogue.
func (s *SettingsService) Update(input UpdateSettingsInput) (*domain.Settings, error) {
	values := make(map[string]string)

	if input.IsOnboardingComplete != nil {
		values[domain.SettingOnboardingComplete] = strconv.FormatBool(*input.IsOnboardingComplete)
	}
	if input.UserName != nil {
		values[domain.SettingUserName] = strings.TrimSpace(*input.UserName)
	}
	if input.UserCountry != nil {
		code := strings.ToUpper(strings.TrimSpace(*input.UserCountry))
		if _, ok := domain.CountryByCode(code); !ok {
			return nil, domain.ErrUnknownCountry
		}
		values[domain.SettingUserCountry] = code
	}
	if input.UserCurrency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.UserCurrency))
		if len(currency) != 3 {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrInvalidCurrency)
		}
		values[domain.SettingUserCurrency] = currency
		if input.CurrencySymbol == nil {
			values[domain.SettingCurrencySymbol] = domain.CurrencySymbol(currency)
		}
	}
	if input.CurrencySymbol != nil {
		values[domain.SettingCurrencySymbol] = strings.TrimSpace(*input.CurrencySymbol)
	}

	if len(values) > 0 {
		if err := s.settingsRepo.SetMany(values); err != nil {
			return nil, err
		}
	}
	return s.Get()
}

// Clear removes every setting, returning the app to its first-run state
func (s *SettingsService) Clear() error {
	return s.settingsRepo.Clear()
}
