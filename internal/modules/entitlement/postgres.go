package entitlement

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Find(ctx context.Context, userID, productID uuid.UUID) (*Entitlement, error) {
	e := &Entitlement{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_id, user_id, session_id, created_at
		FROM entitlements WHERE user_id=$1 AND product_id=$2 LIMIT 1`,
		userID, productID).
		Scan(&e.ID, &e.ProductID, &e.UserID, &e.SessionID, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *postgresRepo) ExistsBySession(ctx context.Context, sessionID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM entitlements WHERE session_id=$1)`, sessionID).
		Scan(&exists)
	return exists, err
}

func (r *postgresRepo) Create(ctx context.Context, e *Entitlement) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entitlements (id, product_id, user_id, session_id)
		VALUES ($1,$2,$3,$4)`,
		e.ID, e.ProductID, e.UserID, e.SessionID)
	return err
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*EntitlementPage, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entitlements WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, user_id, session_id, created_at
		FROM entitlements WHERE user_id=$1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*Entitlement
	for rows.Next() {
		e := &Entitlement{}
		if err := rows.Scan(&e.ID, &e.ProductID, &e.UserID, &e.SessionID, &e.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := (total + limit - 1) / limit
	return &EntitlementPage{
		Docs:        docs,
		Page:        page,
		TotalDocs:   total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
	}, nil
}
