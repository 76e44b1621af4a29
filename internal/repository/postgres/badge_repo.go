package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const badgeColumns = `id, name, description, icon_name, category, earned_date`

// BadgeRepository implements domain.BadgeRepository using PostgreSQL
type BadgeRepository struct {
	pool *pgxpool.Pool
}

// NewBadgeRepository creates a new BadgeRepository
func NewBadgeRepository(pool *pgxpool.Pool) *BadgeRepository {
	return &BadgeRepository{pool: pool}
}

// Create stores an earned badge
func (r *BadgeRepository) Create(badge *domain.Badge) (*domain.Badge, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO badges (name, description, icon_name, category, earned_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+badgeColumns,
		badge.Name, badge.Description, badge.IconName, string(badge.Category), badge.EarnedDate)
	return scanBadge(row)
}

// GetAll retrieves all badges, most recently earned first
func (r *BadgeRepository) GetAll() ([]*domain.Badge, error) {
	return r.query(`SELECT ` + badgeColumns + ` FROM badges ORDER BY earned_date DESC, id DESC`)
}

// GetByCategory retrieves badges of one category
func (r *BadgeRepository) GetByCategory(category domain.BadgeCategory) ([]*domain.Badge, error) {
	return r.query(`SELECT `+badgeColumns+` FROM badges WHERE category = $1 ORDER BY earned_date DESC, id DESC`, string(category))
}

func (r *BadgeRepository) query(sql string, args ...any) ([]*domain.Badge, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	badges := make([]*domain.Badge, 0)
	for rows.Next() {
		badge, err := scanBadge(rows)
		if err != nil {
			return nil, err
		}
		badges = append(badges, badge)
	}
	return badges, rows.Err()
}

// GetByID retrieves a badge by its ID
func (r *BadgeRepository) GetByID(id int32) (*domain.Badge, error) {
	ctx := context.Background()
	badge, err := scanBadge(r.pool.QueryRow(ctx, `SELECT `+badgeColumns+` FROM badges WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBadgeNotFound
		}
		return nil, err
	}
	return badge, nil
}

// Delete removes a badge
func (r *BadgeRepository) Delete(id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM badges WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBadgeNotFound
	}
	return nil
}

// Count counts all badges
func (r *BadgeRepository) Count() (int, error) {
	ctx := context.Background()
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM badges`).Scan(&count)
	return count, err
}

// CountByCategory counts badges of one category
func (r *BadgeRepository) CountByCategory(category domain.BadgeCategory) (int, error) {
	ctx := context.Background()
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM badges WHERE category = $1`, string(category)).Scan(&count)
	return count, err
}

// Exists reports whether a badge with the category and name has been earned
func (r *BadgeRepository) Exists(category domain.BadgeCategory, name string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM badges WHERE category = $1 AND name = $2)`,
		string(category), name).Scan(&exists)
	return exists, err
}

func scanBadge(row rowScanner) (*domain.Badge, error) {
	var (
		b        domain.Badge
		category string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Description, &b.IconName, &category, &b.EarnedDate); err != nil {
		return nil, err
	}
	b.Category = domain.BadgeCategory(category)
	return &b, nil
}
