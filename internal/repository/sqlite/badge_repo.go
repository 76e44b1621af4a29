package sqlite

import (
	"errors"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"gorm.io/gorm"
)

// BadgeRepository implements domain.BadgeRepository using SQLite
type BadgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository creates a new BadgeRepository
func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// Create stores an earned badge
func (r *BadgeRepository) Create(badge *domain.Badge) (*domain.Badge, error) {
	m := &badgeModel{
		Name:        badge.Name,
		Description: badge.Description,
		IconName:    badge.IconName,
		Category:    string(badge.Category),
		EarnedDate:  badge.EarnedDate.UTC(),
	}
	if err := r.db.Create(m).Error; err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

// GetAll retrieves all badges, most recently earned first
func (r *BadgeRepository) GetAll() ([]*domain.Badge, error) {
	return r.find(r.db)
}

// GetByCategory retrieves badges of one category
func (r *BadgeRepository) GetByCategory(category domain.BadgeCategory) ([]*domain.Badge, error) {
	return r.find(r.db.Where("category = ?", string(category)))
}

func (r *BadgeRepository) find(query *gorm.DB) ([]*domain.Badge, error) {
	var models []badgeModel
	if err := query.Order("earned_date DESC, id DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	badges := make([]*domain.Badge, 0, len(models))
	for i := range models {
		badges = append(badges, models[i].toDomain())
	}
	return badges, nil
}

// GetByID retrieves a badge by ID
func (r *BadgeRepository) GetByID(id int32) (*domain.Badge, error) {
	var m badgeModel
	if err := r.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBadgeNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

// Delete removes a badge
func (r *BadgeRepository) Delete(id int32) error {
	result := r.db.Delete(&badgeModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrBadgeNotFound
	}
	return nil
}

// Count counts all badges
func (r *BadgeRepository) Count() (int, error) {
	var count int64
	if err := r.db.Model(&badgeModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountByCategory counts badges of one category
func (r *BadgeRepository) CountByCategory(category domain.BadgeCategory) (int, error) {
	var count int64
	if err := r.db.Model(&badgeModel{}).Where("category = ?", string(category)).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// Exists reports whether a badge with the category and name has been earned
func (r *BadgeRepository) Exists(category domain.BadgeCategory, name string) (bool, error) {
	var count int64
	err := r.db.Model(&badgeModel{}).
		Where("category = ? AND name = ?", string(category), name).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
