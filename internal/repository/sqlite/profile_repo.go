package sqlite

import (
	"errors"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository implements domain.ProfileRepository using SQLite.
// The profile is a single row with ID domain.ProfileID.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves the profile
func (r *ProfileRepository) Get() (*domain.UserProfile, error) {
	var m profileModel
	if err := r.db.First(&m, domain.ProfileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

// Save inserts the profile or replaces the existing one
func (r *ProfileRepository) Save(profile *domain.UserProfile) (*domain.UserProfile, error) {
	m := &profileModel{
		ID:              domain.ProfileID,
		Name:            profile.Name,
		Country:         profile.Country,
		Currency:        profile.Currency,
		CurrencySymbol:  profile.CurrencySymbol,
		MonthlyIncome:   profile.MonthlyIncome,
		MonthlyExpenses: profile.MonthlyExpenses,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "country", "currency", "currency_symbol", "monthly_income", "monthly_expenses", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return nil, err
	}
	return r.Get()
}

// UpdateMonthlyIncome sets the monthly income
func (r *ProfileRepository) UpdateMonthlyIncome(amount decimal.Decimal) (*domain.UserProfile, error) {
	return r.updateColumn("monthly_income", amount)
}

// UpdateMonthlyExpenses sets the monthly expenses
func (r *ProfileRepository) UpdateMonthlyExpenses(amount decimal.Decimal) (*domain.UserProfile, error) {
	return r.updateColumn("monthly_expenses", amount)
}

func (r *ProfileRepository) updateColumn(column string, amount decimal.Decimal) (*domain.UserProfile, error) {
	result := r.db.Model(&profileModel{ID: domain.ProfileID}).Update(column, amount)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrProfileNotFound
	}
	return r.Get()
}

// Delete removes the profile
func (r *ProfileRepository) Delete() error {
	return r.db.Delete(&profileModel{}, domain.ProfileID).Error
}
