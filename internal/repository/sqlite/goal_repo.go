package sqlite

import (
	"errors"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GoalRepository implements domain.GoalRepository using SQLite
type GoalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create stores a new goal
func (r *GoalRepository) Create(goal *domain.SavingGoal) (*domain.SavingGoal, error) {
	m := goalToModel(goal)
	m.ID = 0
	if err := r.db.Omit(clause.Associations).Create(m).Error; err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

// GetByID retrieves a goal by ID
func (r *GoalRepository) GetByID(id int32) (*domain.SavingGoal, error) {
	return getGoal(r.db, id)
}

func getGoal(db *gorm.DB, id int32) (*domain.SavingGoal, error) {
	var m goalModel
	if err := db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

// GetAll retrieves all goals, newest first
func (r *GoalRepository) GetAll() ([]*domain.SavingGoal, error) {
	var models []goalModel
	if err := r.db.Order("created_at DESC, id DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return goalsToDomain(models), nil
}

// GetActive retrieves goals that are not completed, soonest target date first
func (r *GoalRepository) GetActive() ([]*domain.SavingGoal, error) {
	var models []goalModel
	if err := r.db.Where("is_completed = ?", false).Order("target_date ASC, id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return goalsToDomain(models), nil
}

// GetCompleted retrieves completed goals, most recently completed first
func (r *GoalRepository) GetCompleted() ([]*domain.SavingGoal, error) {
	var models []goalModel
	if err := r.db.Where("is_completed = ?", true).Order("completed_date DESC, id DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return goalsToDomain(models), nil
}

// Update writes the editable fields and completion state of a goal
func (r *GoalRepository) Update(goal *domain.SavingGoal) (*domain.SavingGoal, error) {
	m := goalToModel(goal)
	result := r.db.Model(&goalModel{ID: goal.ID}).
		Select("name", "description", "icon_name", "target_amount", "target_date", "is_completed", "completed_date", "updated_at").
		Updates(m)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrGoalNotFound
	}
	return r.GetByID(goal.ID)
}

// Delete removes a goal and its ledger entries
func (r *GoalRepository) Delete(id int32) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", id).Delete(&ledgerEntryModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&goalModel{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrGoalNotFound
		}
		return nil
	})
}

// CountCompleted counts completed goals
func (r *GoalRepository) CountCompleted() (int, error) {
	var count int64
	if err := r.db.Model(&goalModel{}).Where("is_completed = ?", true).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
