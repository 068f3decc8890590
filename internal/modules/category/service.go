package category

import (
	"context"

	"github.com/funroad/funroad-backend/internal/apperr"
)

// Service defines category business logic.
type Service interface {
	// Resolve turns an optional category slug into the set of slugs a
	// product-category filter must match. A nil result means "no category
	// constraint"; an empty non-nil result means "match nothing" (the slug
	// named an unknown category, which fails closed).
	Resolve(ctx context.Context, slug string) ([]string, error)
	// ListTree returns the top-level categories, name ascending, each with
	// its direct children.
	ListTree(ctx context.Context) ([]*Node, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) Resolve(ctx context.Context, slug string) ([]string, error) {
	if slug == "" || slug == AllSlug {
		return nil, nil
	}

	cat, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "category lookup failed", err)
	}
	if cat == nil {
		// Unknown category: the query must return zero products, not error.
		return []string{}, nil
	}

	children, err := s.repo.ListChildren(ctx, cat.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "subcategory lookup failed", err)
	}

	slugs := make([]string, 0, len(children)+1)
	slugs = append(slugs, cat.Slug)
	for _, child := range children {
		slugs = append(slugs, child.Slug)
	}
	return slugs, nil
}

func (s *service) ListTree(ctx context.Context) ([]*Node, error) {
	parents, err := s.repo.ListTopLevel(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "category listing failed", err)
	}

	nodes := make([]*Node, 0, len(parents))
	for _, parent := range parents {
		children, err := s.repo.ListChildren(ctx, parent.ID)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, "subcategory lookup failed", err)
		}
		if children == nil {
			children = []*Category{}
		}
		nodes = append(nodes, &Node{Category: *parent, Subcategories: children})
	}
	return nodes, nil
}
