package tenant

import (
	"context"

	"github.com/funroad/funroad-backend/internal/apperr"
)

// Service defines tenant business logic.
type Service interface {
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) GetBySlug(ctx context.Context, slug string) (*Tenant, error) {
	t, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "tenant lookup failed", err)
	}
	if t == nil {
		return nil, apperr.New(apperr.CodeNotFound, "TENANT_NOT_FOUND")
	}
	return t, nil
}
