package product

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/funroad/funroad-backend/internal/apperr"
)

// CategoryResolver expands a category slug into the slug set a product
// filter must match. Implemented by the category service.
type CategoryResolver interface {
	Resolve(ctx context.Context, slug string) ([]string, error)
}

// ReviewSource yields the ratings of one product. Implemented by the
// review service; systemic store failures come back as INTERNAL.
type ReviewSource interface {
	RatingsByProduct(ctx context.Context, productID uuid.UUID) ([]int, error)
}

// EntitlementChecker answers whether a user bought a product.
type EntitlementChecker interface {
	IsEntitled(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

// Service defines the faceted product query engine.
type Service interface {
	List(ctx context.Context, f *Filter) (*Page, error)
	// Get returns one enriched product. viewerID may be nil (anonymous).
	Get(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*EnrichedProduct, error)
}

type service struct {
	repo         Repository
	categories   CategoryResolver
	reviews      ReviewSource
	entitlements EntitlementChecker
}

func NewService(repo Repository, categories CategoryResolver, reviews ReviewSource, entitlements EntitlementChecker) Service {
	return &service{repo: repo, categories: categories, reviews: reviews, entitlements: entitlements}
}

func (s *service) List(ctx context.Context, f *Filter) (*Page, error) {
	slugs, err := s.categories.Resolve(ctx, f.Category)
	if err != nil {
		return nil, err
	}
	// Unknown category: fail closed without touching the store.
	if slugs != nil && len(slugs) == 0 {
		return &Page{Docs: []*EnrichedProduct{}, Page: f.Page}, nil
	}

	page, err := s.repo.Query(ctx, &Query{
		CategorySlugs: slugs,
		MinPrice:      f.MinPrice,
		MaxPrice:      f.MaxPrice,
		Tags:          f.Tags,
		TenantSlug:    f.TenantSlug,
		Sort:          f.Sort,
		Page:          f.Page,
		Limit:         f.Limit,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "product query failed", err)
	}

	docs, err := s.enrich(ctx, page.Docs)
	if err != nil {
		return nil, err
	}
	return &Page{
		Docs:        docs,
		Page:        page.Page,
		TotalDocs:   page.TotalDocs,
		TotalPages:  page.TotalPages,
		HasNextPage: page.HasNextPage,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*EnrichedProduct, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "product lookup failed", err)
	}
	if p == nil {
		return nil, apperr.New(apperr.CodeNotFound, "product not found")
	}

	enriched := &EnrichedProduct{Product: p}
	ratings, err := s.reviews.RatingsByProduct(ctx, p.ID)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeInternal {
			return nil, err
		}
	} else {
		enriched.ReviewStats = summarize(ratings)
	}

	if viewerID != nil {
		entitled, err := s.entitlements.IsEntitled(ctx, *viewerID, p.ID)
		if err != nil {
			return nil, err
		}
		enriched.IsPurchased = entitled
	}
	return enriched, nil
}

// enrich fans out one review-stat fetch per product and joins before
// returning, preserving the page's original order. A single product's
// failure degrades its stats to zero; a systemic store failure fails the
// page.
func (s *service) enrich(ctx context.Context, products []*Product) ([]*EnrichedProduct, error) {
	docs := make([]*EnrichedProduct, len(products))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range products {
		i, p := i, p
		g.Go(func() error {
			docs[i] = &EnrichedProduct{Product: p}
			ratings, err := s.reviews.RatingsByProduct(ctx, p.ID)
			if err != nil {
				if apperr.CodeOf(err) == apperr.CodeInternal {
					return err
				}
				// Stats unavailable for this product only.
				return nil
			}
			docs[i].ReviewStats = summarize(ratings)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func summarize(ratings []int) ReviewStats {
	if len(ratings) == 0 {
		return ReviewStats{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return ReviewStats{
		ReviewCount:  len(ratings),
		ReviewRating: float64(sum) / float64(len(ratings)),
	}
}
