package entitlement

import (
	"context"

	"github.com/google/uuid"

	"github.com/funroad/funroad-backend/internal/apperr"
)

// Service is the entitlement gate plus the grant path driven by payment
// completion events.
type Service interface {
	// IsEntitled answers "has this user bought this product". First-match
	// existence check; duplicates are harmless.
	IsEntitled(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	// Grant records entitlements for every product of a completed payment
	// session. Idempotent on sessionID: a duplicate delivery creates
	// nothing.
	Grant(ctx context.Context, sessionID string, userID uuid.UUID, productIDs []uuid.UUID) error
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) IsEntitled(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	e, err := s.repo.Find(ctx, userID, productID)
	if err != nil {
		return false, apperr.Wrap(apperr.CodeInternal, "entitlement lookup failed", err)
	}
	return e != nil, nil
}

func (s *service) Grant(ctx context.Context, sessionID string, userID uuid.UUID, productIDs []uuid.UUID) error {
	if sessionID == "" {
		return apperr.New(apperr.CodeBadRequest, "session id is required")
	}

	done, err := s.repo.ExistsBySession(ctx, sessionID)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "entitlement lookup failed", err)
	}
	if done {
		return nil
	}

	for _, productID := range productIDs {
		e := &Entitlement{
			ID:        uuid.New(),
			ProductID: productID,
			UserID:    userID,
			SessionID: sessionID,
		}
		if err := s.repo.Create(ctx, e); err != nil {
			return apperr.Wrap(apperr.CodeInternal, "entitlement creation failed", err)
		}
	}
	return nil
}
