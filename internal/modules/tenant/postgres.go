package tenant

import (
	"context"
	"database/sql"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, t *Tenant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tenants (id, slug, name, payment_account_id, payment_details_submitted)
		VALUES ($1,$2,$3,$4,$5)`,
		t.ID, t.Slug, t.Name, t.PaymentAccountID, t.PaymentDetailsSubmitted)
	return err
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*Tenant, error) {
	t := &Tenant{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, slug, name, payment_account_id, payment_details_submitted, created_at, updated_at
		FROM tenants WHERE slug=$1`, slug).
		Scan(&t.ID, &t.Slug, &t.Name, &t.PaymentAccountID, &t.PaymentDetailsSubmitted,
			&t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}
