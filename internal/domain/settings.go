package domain

import "strconv"

// Settings keys
const (
	SettingOnboardingComplete = "is_onboarding_complete"
	SettingUserName           = "user_name"
	SettingUserCountry        = "user_country"
	SettingUserCurrency       = "user_currency"
	SettingCurrencySymbol     = "currency_symbol"
)

const (
	DefaultCurrency       = "USD"
	DefaultCurrencySymbol = "$"
)

// Settings is a typed view of the key/value settings store
type Settings struct {
	IsOnboardingComplete bool   `json:"isOnboardingComplete"`
	UserName             string `json:"userName"`
	UserCountry          string `json:"userCountry"`
	UserCurrency         string `json:"userCurrency"`
	CurrencySymbol       string `json:"currencySymbol"`
}

// SettingsFromMap builds a Settings view, applying defaults for missing keys
func SettingsFromMap(values map[string]string) Settings {
	s := Settings{
		UserName:       values[SettingUserName],
		UserCountry:    values[SettingUserCountry],
		UserCurrency:   DefaultCurrency,
		CurrencySymbol: DefaultCurrencySymbol,
	}
	if v, ok := values[SettingOnboardingComplete]; ok {
		s.IsOnboardingComplete, _ = strconv.ParseBool(v)
	}
	if v := values[SettingUserCurrency]; v != "" {
		s.UserCurrency = v
	}
	if v := values[SettingCurrencySymbol]; v != "" {
		s.CurrencySymbol = v
	}
	return s
}

// Map returns the settings as store key/value pairs
func (s Settings) Map() map[string]string {
	return map[string]string{
		SettingOnboardingComplete: strconv.FormatBool(s.IsOnboardingComplete),
		SettingUserName:           s.UserName,
		SettingUserCountry:        s.UserCountry,
		SettingUserCurrency:       s.UserCurrency,
		SettingCurrencySymbol:     s.CurrencySymbol,
	}
}

// SettingsRepository is a string-keyed settings store
type SettingsRepository interface {
	Get(key string) (string, bool, error)
	GetAll() (map[string]string, error)
	Set(key, value string) error
	// SetMany writes all values in one transaction
	SetMany(values map[string]string) error
	Clear() error
}
