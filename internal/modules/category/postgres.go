package category

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const categoryColumns = `id, name, slug, COALESCE(color,''), parent_id, created_at, updated_at`

func scanCategory(scan func(...interface{}) error) (*Category, error) {
	c := &Category{}
	var parentID uuid.NullUUID
	err := scan(&c.ID, &c.Name, &c.Slug, &c.Color, &parentID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		c.ParentID = &parentID.UUID
	}
	return c, nil
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories WHERE slug=$1`, slug)
	c, err := scanCategory(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *postgresRepo) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories WHERE parent_id=$1 ORDER BY name ASC`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCategories(rows)
}

func (r *postgresRepo) ListTopLevel(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories WHERE parent_id IS NULL ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCategories(rows)
}

func collectCategories(rows *sql.Rows) ([]*Category, error) {
	var categories []*Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
