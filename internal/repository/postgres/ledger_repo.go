package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const entryColumns = `id, goal_id, amount, date, note, kind, created_at`

// LedgerRepository implements domain.LedgerRepository using PostgreSQL
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Apply updates the goal balance, completion and target date and inserts the entry in one transaction
func (r *LedgerRepository) Apply(change *domain.BalanceChange) (*domain.SavingGoal, *domain.LedgerEntry, error) {
	ctx := context.Background()

	newAmount, err := decimalToPgNumeric(change.NewAmount)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid amount: %w", err)
	}
	entryAmount, err := decimalToPgNumeric(change.Entry.Amount)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid entry amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	// 1. Lock the goal row
	var id int32
	if err := tx.QueryRow(ctx, `SELECT id FROM saving_goals WHERE id = $1 FOR UPDATE`, change.GoalID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrGoalNotFound
		}
		return nil, nil, err
	}

	// 2. Update balance, completion and target date, keeping an earlier completion date
	row := tx.QueryRow(ctx, `
		UPDATE saving_goals
		SET current_amount = $2,
			is_completed = is_completed OR $3,
			completed_date = CASE WHEN $3 AND NOT is_completed THEN $4 ELSE completed_date END,
			target_date = COALESCE($5::date, target_date),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+goalColumns,
		change.GoalID,
		newAmount,
		change.Complete,
		timeToPgDate(change.CompletedDate),
		timePtrToPgDate(change.NewTargetDate),
	)
	goal, err := scanGoal(row)
	if err != nil {
		return nil, nil, err
	}

	// 3. Insert entry
	row = tx.QueryRow(ctx, `
		INSERT INTO ledger_entries (goal_id, amount, date, note, kind)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+entryColumns,
		change.GoalID,
		entryAmount,
		timeToPgDate(change.Entry.Date),
		change.Entry.Note,
		string(change.Entry.Kind),
	)
	entry, err := scanEntry(row)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return nil, nil, domain.ErrGoalNotFound
		}
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return goal, entry, nil
}

// GetByID retrieves an entry by its ID
func (r *LedgerRepository) GetByID(id int32) (*domain.LedgerEntry, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE id = $1`, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// GetByGoal retrieves a goal's entries, newest date first
func (r *LedgerRepository) GetByGoal(goalID int32) ([]*domain.LedgerEntry, error) {
	return r.query(`SELECT `+entryColumns+` FROM ledger_entries WHERE goal_id = $1 ORDER BY date DESC, id DESC`, goalID)
}

// GetByGoalAndDateRange retrieves a goal's entries dated within [from, to]
func (r *LedgerRepository) GetByGoalAndDateRange(goalID int32, from, to time.Time) ([]*domain.LedgerEntry, error) {
	return r.query(`SELECT `+entryColumns+` FROM ledger_entries
		WHERE goal_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date DESC, id DESC`,
		goalID, timeToPgDate(from), timeToPgDate(to))
}

// GetByDate retrieves entries of all goals dated on the given day
func (r *LedgerRepository) GetByDate(date time.Time) ([]*domain.LedgerEntry, error) {
	return r.query(`SELECT `+entryColumns+` FROM ledger_entries WHERE date = $1 ORDER BY id DESC`, timeToPgDate(date))
}

// GetDeposits retrieves deposits of all goals
func (r *LedgerRepository) GetDeposits() ([]*domain.LedgerEntry, error) {
	return r.query(`SELECT `+entryColumns+` FROM ledger_entries WHERE kind = $1 ORDER BY date DESC, id DESC`,
		string(domain.EntryKindDeposit))
}

func (r *LedgerRepository) query(sql string, args ...any) ([]*domain.LedgerEntry, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.LedgerEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes an entry record
func (r *LedgerRepository) Delete(id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// SumByKind sums a goal's entries of one kind
func (r *LedgerRepository) SumByKind(goalID int32, kind domain.EntryKind) (decimal.Decimal, error) {
	ctx := context.Background()
	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE goal_id = $1 AND kind = $2`,
		goalID, string(kind)).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(sum), nil
}

// AverageDeposit averages a goal's deposits, zero when there are none
func (r *LedgerRepository) AverageDeposit(goalID int32) (decimal.Decimal, error) {
	ctx := context.Background()
	var (
		total pgtype.Numeric
		count int64
	)
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM ledger_entries WHERE goal_id = $1 AND kind = $2`,
		goalID, string(domain.EntryKindDeposit)).Scan(&total, &count)
	if err != nil {
		return decimal.Zero, err
	}
	if count == 0 {
		return decimal.Zero, nil
	}
	return pgNumericToDecimal(total).Div(decimal.NewFromInt(count)), nil
}

// CountDepositDays counts distinct days with a deposit for a goal
func (r *LedgerRepository) CountDepositDays(goalID int32) (int, error) {
	ctx := context.Background()
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT date) FROM ledger_entries WHERE goal_id = $1 AND kind = $2`,
		goalID, string(domain.EntryKindDeposit)).Scan(&count)
	return count, err
}

// DailyNetTotals returns a goal's net amount per day, newest day first
func (r *LedgerRepository) DailyNetTotals(goalID int32, limit int) ([]domain.DailyTotal, error) {
	ctx := context.Background()
	if limit <= 0 {
		limit = domain.DefaultDailyHistoryLimit
	}

	rows, err := r.pool.Query(ctx, `
		SELECT date, SUM(CASE WHEN kind = $2 THEN -amount ELSE amount END)
		FROM ledger_entries
		WHERE goal_id = $1
		GROUP BY date
		ORDER BY date DESC
		LIMIT $3`,
		goalID, string(domain.EntryKindWithdrawal), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]domain.DailyTotal, 0)
	for rows.Next() {
		var (
			date  pgtype.Date
			total pgtype.Numeric
		)
		if err := rows.Scan(&date, &total); err != nil {
			return nil, err
		}
		totals = append(totals, domain.DailyTotal{Date: pgDateToTime(date), Total: pgNumericToDecimal(total)})
	}
	return totals, rows.Err()
}

func scanEntry(row rowScanner) (*domain.LedgerEntry, error) {
	var (
		e         domain.LedgerEntry
		amount    pgtype.Numeric
		date      pgtype.Date
		kind      string
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&e.ID, &e.GoalID, &amount, &date, &e.Note, &kind, &createdAt); err != nil {
		return nil, err
	}
	e.Amount = pgNumericToDecimal(amount)
	e.Date = pgDateToTime(date)
	e.Kind = domain.EntryKind(kind)
	e.CreatedAt = createdAt.Time
	return &e, nil
}
