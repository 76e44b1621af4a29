package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository implements domain.SettingsRepository using PostgreSQL
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

const upsertSetting = `
	INSERT INTO settings (key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

// Get retrieves one value and whether it was set
func (r *SettingsRepository) Get(key string) (string, bool, error) {
	ctx := context.Background()
	var value string
	err := r.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// GetAll retrieves every value
func (r *SettingsRepository) GetAll() (map[string]string, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = value
	}
	return values, rows.Err()
}

// Set writes one value
func (r *SettingsRepository) Set(key, value string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, upsertSetting, key, value)
	return err
}

// SetMany writes all values in one transaction
func (r *SettingsRepository) SetMany(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for key, value := range values {
		batch.Queue(upsertSetting, key, value)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Clear removes every value
func (r *SettingsRepository) Clear() error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM settings`)
	return err
}
