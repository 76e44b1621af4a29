package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const goalColumns = `id, name, description, target_amount, current_amount, start_date, target_date,
	currency, currency_symbol, icon_name, is_completed, completed_date, created_at, updated_at`

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

// Create creates a new goal
func (r *GoalRepository) Create(goal *domain.SavingGoal) (*domain.SavingGoal, error) {
	ctx := context.Background()
	targetAmount, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	currentAmount, err := decimalToPgNumeric(goal.CurrentAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO saving_goals (name, description, target_amount, current_amount, start_date, target_date,
			currency, currency_symbol, icon_name, is_completed, completed_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+goalColumns,
		goal.Name,
		goal.Description,
		targetAmount,
		currentAmount,
		timeToPgDate(goal.StartDate),
		timeToPgDate(goal.TargetDate),
		goal.Currency,
		goal.CurrencySymbol,
		goal.IconName,
		goal.IsCompleted,
		timePtrToPgDate(goal.CompletedDate),
	)
	return scanGoal(row)
}

// GetByID retrieves a goal by its ID
func (r *GoalRepository) GetByID(id int32) (*domain.SavingGoal, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM saving_goals WHERE id = $1`, id)
	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// GetAll retrieves all goals, newest first
func (r *GoalRepository) GetAll() ([]*domain.SavingGoal, error) {
	return r.query(`SELECT ` + goalColumns + ` FROM saving_goals ORDER BY created_at DESC, id DESC`)
}

// GetActive retrieves goals that are not completed, soonest target date first
func (r *GoalRepository) GetActive() ([]*domain.SavingGoal, error) {
	return r.query(`SELECT ` + goalColumns + ` FROM saving_goals WHERE is_completed = FALSE ORDER BY target_date ASC, id ASC`)
}

// GetCompleted retrieves completed goals, most recently completed first
func (r *GoalRepository) GetCompleted() ([]*domain.SavingGoal, error) {
	return r.query(`SELECT ` + goalColumns + ` FROM saving_goals WHERE is_completed = TRUE ORDER BY completed_date DESC, id DESC`)
}

func (r *GoalRepository) query(sql string, args ...any) ([]*domain.SavingGoal, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]*domain.SavingGoal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// Update updates the editable fields and completion state of a goal
func (r *GoalRepository) Update(goal *domain.SavingGoal) (*domain.SavingGoal, error) {
	ctx := context.Background()
	targetAmount, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE saving_goals
		SET name = $2, description = $3, icon_name = $4, target_amount = $5, target_date = $6,
			is_completed = $7, completed_date = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING `+goalColumns,
		goal.ID,
		goal.Name,
		goal.Description,
		goal.IconName,
		targetAmount,
		timeToPgDate(goal.TargetDate),
		goal.IsCompleted,
		timePtrToPgDate(goal.CompletedDate),
	)
	updated, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a goal; its ledger entries cascade
func (r *GoalRepository) Delete(id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM saving_goals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

// CountCompleted counts completed goals
func (r *GoalRepository) CountCompleted() (int, error) {
	ctx := context.Background()
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM saving_goals WHERE is_completed = TRUE`).Scan(&count)
	return count, err
}

func scanGoal(row rowScanner) (*domain.SavingGoal, error) {
	var (
		g             domain.SavingGoal
		targetAmount  pgtype.Numeric
		currentAmount pgtype.Numeric
		startDate     pgtype.Date
		targetDate    pgtype.Date
		completedDate pgtype.Date
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&targetAmount,
		&currentAmount,
		&startDate,
		&targetDate,
		&g.Currency,
		&g.CurrencySymbol,
		&g.IconName,
		&g.IsCompleted,
		&completedDate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.TargetAmount = pgNumericToDecimal(targetAmount)
	g.CurrentAmount = pgNumericToDecimal(currentAmount)
	g.StartDate = pgDateToTime(startDate)
	g.TargetDate = pgDateToTime(targetDate)
	g.CompletedDate = pgDateToTimePtr(completedDate)
	g.CreatedAt = createdAt.Time
	g.UpdatedAt = updatedAt.Time
	return &g, nil
}
