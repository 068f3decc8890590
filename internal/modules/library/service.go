package library

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/funroad/funroad-backend/internal/apperr"
	"github.com/funroad/funroad-backend/internal/modules/entitlement"
	"github.com/funroad/funroad-backend/internal/modules/product"
)

// ProductSource loads products for the library views. Implemented by the
// product repository.
type ProductSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*product.Product, error)
}

// ReviewSource yields the ratings of one product.
type ReviewSource interface {
	RatingsByProduct(ctx context.Context, productID uuid.UUID) ([]int, error)
}

// Item is a purchased product as shown in the buyer's library, including
// the content that purchase unlocks.
type Item struct {
	*product.Product
	product.ReviewStats
	ProtectedContent string `json:"protected_content,omitempty"`
}

// Page is one page of library items.
type Page struct {
	Docs        []*Item `json:"docs"`
	Page        int     `json:"page"`
	TotalDocs   int     `json:"total_docs"`
	TotalPages  int     `json:"total_pages"`
	HasNextPage bool    `json:"has_next_page"`
}

// Service serves the buyer's library: products they are entitled to.
type Service interface {
	// GetOne returns a purchased product with its protected content.
	// Unentitled callers get NOT_FOUND, same as a missing product.
	GetOne(ctx context.Context, userID, productID uuid.UUID) (*Item, error)
	GetMany(ctx context.Context, userID uuid.UUID, page, limit int) (*Page, error)
}

type service struct {
	entitlements entitlement.Repository
	gate         entitlement.Service
	products     ProductSource
	reviews      ReviewSource
}

func NewService(entitlements entitlement.Repository, gate entitlement.Service, products ProductSource, reviews ReviewSource) Service {
	return &service{entitlements: entitlements, gate: gate, products: products, reviews: reviews}
}

func (s *service) GetOne(ctx context.Context, userID, productID uuid.UUID) (*Item, error) {
	entitled, err := s.gate.IsEntitled(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !entitled {
		return nil, apperr.New(apperr.CodeNotFound, "order not found")
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "product lookup failed", err)
	}
	if p == nil {
		return nil, apperr.New(apperr.CodeNotFound, "product not found")
	}

	item := &Item{Product: p, ProtectedContent: p.ProtectedContent}
	if ratings, err := s.reviews.RatingsByProduct(ctx, p.ID); err == nil {
		item.ReviewStats = stats(ratings)
	} else if apperr.CodeOf(err) == apperr.CodeInternal {
		return nil, err
	}
	return item, nil
}

func (s *service) GetMany(ctx context.Context, userID uuid.UUID, page, limit int) (*Page, error) {
	entitlements, err := s.entitlements.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "entitlement listing failed", err)
	}

	ids := make([]uuid.UUID, 0, len(entitlements.Docs))
	for _, e := range entitlements.Docs {
		ids = append(ids, e.ProductID)
	}

	var products []*product.Product
	if len(ids) > 0 {
		products, err = s.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, "product lookup failed", err)
		}
	}

	docs := make([]*Item, len(products))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range products {
		i, p := i, p
		g.Go(func() error {
			docs[i] = &Item{Product: p}
			ratings, err := s.reviews.RatingsByProduct(gctx, p.ID)
			if err != nil {
				if apperr.CodeOf(err) == apperr.CodeInternal {
					return err
				}
				return nil
			}
			docs[i].ReviewStats = stats(ratings)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Page{
		Docs:        docs,
		Page:        entitlements.Page,
		TotalDocs:   entitlements.TotalDocs,
		TotalPages:  entitlements.TotalPages,
		HasNextPage: entitlements.HasNextPage,
	}, nil
}

func stats(ratings []int) product.ReviewStats {
	if len(ratings) == 0 {
		return product.ReviewStats{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return product.ReviewStats{
		ReviewCount:  len(ratings),
		ReviewRating: float64(sum) / float64(len(ratings)),
	}
}
