package product

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `p.id, p.name, p.description, p.price, p.category_id, c.slug,
	p.tenant_id, t.slug, p.tags, p.refund_policy, p.is_featured,
	COALESCE(p.protected_content,''), p.created_at, p.updated_at`

const productJoins = `
	FROM products p
	JOIN categories c ON c.id = p.category_id
	JOIN tenants t ON t.id = p.tenant_id`

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var tags pq.StringArray
	err := scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID, &p.CategorySlug,
		&p.TenantID, &p.TenantSlug, &tags, &p.RefundPolicy, &p.IsFeatured,
		&p.ProtectedContent, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Tags = []string(tags)
	return p, nil
}

func (r *postgresRepo) Query(ctx context.Context, q *Query) (*ProductPage, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 1

	if q.CategorySlugs != nil {
		where += fmt.Sprintf(` AND c.slug = ANY($%d)`, n)
		args = append(args, pq.Array(q.CategorySlugs))
		n++
	}
	if q.MinPrice != nil {
		where += fmt.Sprintf(` AND p.price >= $%d`, n)
		args = append(args, *q.MinPrice)
		n++
	}
	if q.MaxPrice != nil {
		where += fmt.Sprintf(` AND p.price <= $%d`, n)
		args = append(args, *q.MaxPrice)
		n++
	}
	if len(q.Tags) > 0 {
		// Overlap: the product matches when any of its tags is requested.
		where += fmt.Sprintf(` AND p.tags && $%d`, n)
		args = append(args, pq.Array(q.Tags))
		n++
	}
	if q.TenantSlug != "" {
		where += fmt.Sprintf(` AND t.slug = $%d`, n)
		args = append(args, q.TenantSlug)
		n++
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*)`+productJoins+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	// Id tiebreak keeps pagination deterministic across equal keys.
	order := ` ORDER BY p.created_at DESC, p.id DESC`
	if q.Sort == SortCurated {
		order = ` ORDER BY p.name ASC, p.id DESC`
	}

	query := `SELECT ` + productColumns + productJoins + where + order +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n, n+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	totalPages := (total + q.Limit - 1) / q.Limit
	return &ProductPage{
		Docs:        docs,
		Page:        q.Page,
		TotalDocs:   total,
		TotalPages:  totalPages,
		HasNextPage: q.Page < totalPages,
	}, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+productJoins+` WHERE p.id=$1`, id)
	p, err := scanProduct(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *postgresRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}

func (r *postgresRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+productJoins+` WHERE p.id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *postgresRepo) GetByIDsForTenant(ctx context.Context, ids []uuid.UUID, tenantSlug string) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+productJoins+` WHERE p.id = ANY($1) AND t.slug = $2`,
		pq.Array(ids), tenantSlug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]*Product, error) {
	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
