package review

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const reviewColumns = `id, product_id, user_id, rating, description, created_at, updated_at`

func scanReview(scan func(...interface{}) error) (*Review, error) {
	rv := &Review{}
	err := scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Description,
		&rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id=$1`, id)
	rv, err := scanReview(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rv, err
}

func (r *postgresRepo) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*Review, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE user_id=$1 AND product_id=$2 LIMIT 1`,
		userID, productID)
	rv, err := scanReview(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rv, err
}

func (r *postgresRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE product_id=$1 ORDER BY created_at DESC`,
		productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		rv, err := scanReview(rows.Scan)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *postgresRepo) Create(ctx context.Context, rv *Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (id, product_id, user_id, rating, description)
		VALUES ($1,$2,$3,$4,$5)`,
		rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Description)
	return err
}

func (r *postgresRepo) Update(ctx context.Context, rv *Review) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE reviews SET rating=$1, description=$2, updated_at=NOW()
		WHERE id=$3`,
		rv.Rating, rv.Description, rv.ID)
	return err
}
