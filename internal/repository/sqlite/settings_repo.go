package sqlite

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository implements domain.SettingsRepository using SQLite
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves one value and whether it was set
func (r *SettingsRepository) Get(key string) (string, bool, error) {
	var m settingModel
	if err := r.db.Where("key = ?", key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return m.Value, true, nil
}

// GetAll retrieves every value
func (r *SettingsRepository) GetAll() (map[string]string, error) {
	var models []settingModel
	if err := r.db.Find(&models).Error; err != nil {
		return nil, err
	}
	values := make(map[string]string, len(models))
	for _, m := range models {
		values[m.Key] = m.Value
	}
	return values, nil
}

// Set writes one value
func (r *SettingsRepository) Set(key, value string) error {
	return r.SetMany(map[string]string{key: value})
}

// SetMany writes all values in one transaction
func (r *SettingsRepository) SetMany(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	models := make([]settingModel, 0, len(values))
	for k, v := range values {
		models = append(models, settingModel{Key: k, Value: v})
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&models).Error
	})
}

// Clear removes every value
func (r *SettingsRepository) Clear() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&settingModel{}).Error
}
