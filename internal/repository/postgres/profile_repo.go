package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const profileColumns = `id, name, country, currency, currency_symbol, monthly_income, monthly_expenses, created_at, updated_at`

// ProfileRepository implements domain.ProfileRepository using PostgreSQL
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Get retrieves the profile
func (r *ProfileRepository) Get() (*domain.UserProfile, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE id = $1`, domain.ProfileID)
	return scanProfileRow(row)
}

// Save inserts the profile or replaces the existing one
func (r *ProfileRepository) Save(profile *domain.UserProfile) (*domain.UserProfile, error) {
	ctx := context.Background()
	income, err := decimalToPgNumeric(profile.MonthlyIncome)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly income: %w", err)
	}
	expenses, err := decimalToPgNumeric(profile.MonthlyExpenses)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly expenses: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_profiles (id, name, country, currency, currency_symbol, monthly_income, monthly_expenses)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			country = EXCLUDED.country,
			currency = EXCLUDED.currency,
			currency_symbol = EXCLUDED.currency_symbol,
			monthly_income = EXCLUDED.monthly_income,
			monthly_expenses = EXCLUDED.monthly_expenses,
			updated_at = NOW()
		RETURNING `+profileColumns,
		domain.ProfileID,
		profile.Name,
		profile.Country,
		profile.Currency,
		profile.CurrencySymbol,
		income,
		expenses,
	)
	return scanProfileRow(row)
}

// UpdateMonthlyIncome sets the monthly income
func (r *ProfileRepository) UpdateMonthlyIncome(amount decimal.Decimal) (*domain.UserProfile, error) {
	return r.updateAmount(`monthly_income`, amount)
}

// UpdateMonthlyExpenses sets the monthly expenses
func (r *ProfileRepository) UpdateMonthlyExpenses(amount decimal.Decimal) (*domain.UserProfile, error) {
	return r.updateAmount(`monthly_expenses`, amount)
}

// updateAmount is only called with fixed column names
func (r *ProfileRepository) updateAmount(column string, amount decimal.Decimal) (*domain.UserProfile, error) {
	ctx := context.Background()
	num, err := decimalToPgNumeric(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE user_profiles SET `+column+` = $2, updated_at = NOW() WHERE id = $1 RETURNING `+profileColumns,
		domain.ProfileID, num)
	return scanProfileRow(row)
}

// Delete removes the profile
func (r *ProfileRepository) Delete() error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM user_profiles WHERE id = $1`, domain.ProfileID)
	return err
}

func scanProfileRow(row pgx.Row) (*domain.UserProfile, error) {
	var (
		p         domain.UserProfile
		income    pgtype.Numeric
		expenses  pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&p.ID, &p.Name, &p.Country, &p.Currency, &p.CurrencySymbol, &income, &expenses, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	p.MonthlyIncome = pgNumericToDecimal(income)
	p.MonthlyExpenses = pgNumericToDecimal(expenses)
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	return &p, nil
}
