package sqlite

import (
	"errors"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerRepository implements domain.LedgerRepository using SQLite
type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Apply updates the goal balance, completion and target date and inserts the entry in one transaction
func (r *LedgerRepository) Apply(change *domain.BalanceChange) (*domain.SavingGoal, *domain.LedgerEntry, error) {
	var (
		goal  *domain.SavingGoal
		entry *ledgerEntryModel
	)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// 1. Update balance
		result := tx.Model(&goalModel{ID: change.GoalID}).Update("current_amount", change.NewAmount)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrGoalNotFound
		}

		// 2. Mark completed, keeping an earlier completion date
		if change.Complete {
			err := tx.Model(&goalModel{}).
				Where("id = ? AND is_completed = ?", change.GoalID, false).
				Updates(map[string]interface{}{
					"is_completed":   true,
					"completed_date": formatDate(change.CompletedDate),
				}).Error
			if err != nil {
				return err
			}
		}

		// 3. Move the target date
		if change.NewTargetDate != nil {
			err := tx.Model(&goalModel{ID: change.GoalID}).Update("target_date", formatDate(*change.NewTargetDate)).Error
			if err != nil {
				return err
			}
		}

		// 4. Insert entry
		entry = entryToModel(change.Entry)
		entry.ID = 0
		entry.GoalID = change.GoalID
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		var err error
		goal, err = getGoal(tx, change.GoalID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return goal, entry.toDomain(), nil
}

// GetByID retrieves an entry by ID
func (r *LedgerRepository) GetByID(id int32) (*domain.LedgerEntry, error) {
	var m ledgerEntryModel
	if err := r.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

// GetByGoal retrieves a goal's entries, newest date first
func (r *LedgerRepository) GetByGoal(goalID int32) ([]*domain.LedgerEntry, error) {
	return r.find(r.db.Where("goal_id = ?", goalID))
}

// GetByGoalAndDateRange retrieves a goal's entries dated within [from, to]
func (r *LedgerRepository) GetByGoalAndDateRange(goalID int32, from, to time.Time) ([]*domain.LedgerEntry, error) {
	return r.find(r.db.Where("goal_id = ? AND date BETWEEN ? AND ?", goalID, formatDate(from), formatDate(to)))
}

// GetByDate retrieves entries of all goals dated on the given day
func (r *LedgerRepository) GetByDate(date time.Time) ([]*domain.LedgerEntry, error) {
	return r.find(r.db.Where("date = ?", formatDate(date)))
}

// GetDeposits retrieves deposits of all goals
func (r *LedgerRepository) GetDeposits() ([]*domain.LedgerEntry, error) {
	return r.find(r.db.Where("kind = ?", string(domain.EntryKindDeposit)))
}

func (r *LedgerRepository) find(query *gorm.DB) ([]*domain.LedgerEntry, error) {
	var models []ledgerEntryModel
	if err := query.Order("date DESC, id DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return entriesToDomain(models), nil
}

// Delete removes an entry record
func (r *LedgerRepository) Delete(id int32) error {
	result := r.db.Delete(&ledgerEntryModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// SumByKind sums a goal's entries of one kind
func (r *LedgerRepository) SumByKind(goalID int32, kind domain.EntryKind) (decimal.Decimal, error) {
	entries, err := r.find(r.db.Where("goal_id = ? AND kind = ?", goalID, string(kind)))
	if err != nil {
		return decimal.Zero, err
	}
	return domain.SumEntries(entries, kind), nil
}

// AverageDeposit averages a goal's deposits, zero when there are none
func (r *LedgerRepository) AverageDeposit(goalID int32) (decimal.Decimal, error) {
	entries, err := r.find(r.db.Where("goal_id = ? AND kind = ?", goalID, string(domain.EntryKindDeposit)))
	if err != nil {
		return decimal.Zero, err
	}
	return domain.AverageDepositAmount(entries), nil
}

// CountDepositDays counts distinct days with a deposit for a goal
func (r *LedgerRepository) CountDepositDays(goalID int32) (int, error) {
	var count int64
	err := r.db.Model(&ledgerEntryModel{}).
		Where("goal_id = ? AND kind = ?", goalID, string(domain.EntryKindDeposit)).
		Distinct("date").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// DailyNetTotals returns a goal's net amount per day, newest day first
func (r *LedgerRepository) DailyNetTotals(goalID int32, limit int) ([]domain.DailyTotal, error) {
	entries, err := r.GetByGoal(goalID)
	if err != nil {
		return nil, err
	}
	return domain.DailyNetTotals(entries, limit), nil
}
