package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfileID is the id of the single profile row
const ProfileID int32 = 1

// UserProfile is the installation's single user
type UserProfile struct {
	ID              int32           `json:"id"`
	Name            string          `json:"name"`
	Country         string          `json:"country"`
	Currency        string          `json:"currency"`
	CurrencySymbol  string          `json:"currencySymbol"`
	MonthlyIncome   decimal.Decimal `json:"monthlyIncome"`
	MonthlyExpenses decimal.Decimal `json:"monthlyExpenses"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// DisposableIncome returns monthly income minus expenses, floored at zero
func (p *UserProfile) DisposableIncome() decimal.Decimal {
	disposable := p.MonthlyIncome.Sub(p.MonthlyExpenses)
	if disposable.IsNegative() {
		return decimal.Zero
	}
	return disposable
}

type SavingStyle string

const (
	SavingStyleConservative SavingStyle = "conservative"
	SavingStyleBalanced     SavingStyle = "balanced"
	SavingStyleAggressive   SavingStyle = "aggressive"
)

// Rate returns the share of disposable income the style sets aside.
// Unknown styles fall back to balanced.
func (s SavingStyle) Rate() decimal.Decimal {
	switch s {
	case SavingStyleConservative:
		return decimal.NewFromFloat(0.05)
	case SavingStyleAggressive:
		return decimal.NewFromFloat(0.20)
	default:
		return decimal.NewFromFloat(0.10)
	}
}

// IsValid reports whether s is one of the known styles
func (s SavingStyle) IsValid() bool {
	return s == SavingStyleConservative || s == SavingStyleBalanced || s == SavingStyleAggressive
}

// RecommendedDailySaving spreads the style's share of monthly disposable income over 30 days
func RecommendedDailySaving(disposableIncome decimal.Decimal, style SavingStyle) decimal.Decimal {
	daily := disposableIncome.Mul(style.Rate()).Div(decimal.NewFromInt(30))
	if daily.IsNegative() {
		return decimal.Zero
	}
	return daily
}

// ProfileRepository defines the interface for profile persistence operations
type ProfileRepository interface {
	Get() (*UserProfile, error)
	// Save inserts the profile or replaces the existing one
	Save(profile *UserProfile) (*UserProfile, error)
	UpdateMonthlyIncome(amount decimal.Decimal) (*UserProfile, error)
	UpdateMonthlyExpenses(amount decimal.Decimal) (*UserProfile, error)
	Delete() error
}
