package review

import (
	"context"

	"github.com/google/uuid"

	"github.com/funroad/funroad-backend/internal/apperr"
)

// ProductFinder answers whether a product exists. Implemented by the
// product repository.
type ProductFinder interface {
	Exists(ctx context.Context, productID uuid.UUID) (bool, error)
}

// EntitlementChecker answers whether a user bought a product.
type EntitlementChecker interface {
	IsEntitled(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

// Service defines review business logic.
type Service interface {
	// GetOne returns the caller's own review of a product, or nil.
	GetOne(ctx context.Context, userID, productID uuid.UUID) (*Review, error)
	Create(ctx context.Context, userID, productID uuid.UUID, rating int, description string) (*Review, error)
	Update(ctx context.Context, userID, reviewID uuid.UUID, rating int, description string) (*Review, error)
	// RatingsByProduct feeds the query engine's review aggregation.
	RatingsByProduct(ctx context.Context, productID uuid.UUID) ([]int, error)
}

type service struct {
	repo         Repository
	products     ProductFinder
	entitlements EntitlementChecker
}

func NewService(repo Repository, products ProductFinder, entitlements EntitlementChecker) Service {
	return &service{repo: repo, products: products, entitlements: entitlements}
}

func (s *service) GetOne(ctx context.Context, userID, productID uuid.UUID) (*Review, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	rv, err := s.repo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "review lookup failed", err)
	}
	return rv, nil
}

func (s *service) Create(ctx context.Context, userID, productID uuid.UUID, rating int, description string) (*Review, error) {
	if err := validateFields(rating, description); err != nil {
		return nil, err
	}
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	// Reviews are purchase-gated: only entitled buyers may write one.
	entitled, err := s.entitlements.IsEntitled(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !entitled {
		return nil, apperr.New(apperr.CodeBadRequest, "product not purchased")
	}

	existing, err := s.repo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "review lookup failed", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.CodeBadRequest, "product already reviewed")
	}

	rv := &Review{
		ID:          uuid.New(),
		ProductID:   productID,
		UserID:      userID,
		Rating:      rating,
		Description: description,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "review creation failed", err)
	}
	return rv, nil
}

func (s *service) Update(ctx context.Context, userID, reviewID uuid.UUID, rating int, description string) (*Review, error) {
	if err := validateFields(rating, description); err != nil {
		return nil, err
	}

	rv, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "review lookup failed", err)
	}
	if rv == nil {
		return nil, apperr.New(apperr.CodeNotFound, "review not found")
	}
	if rv.UserID != userID {
		return nil, apperr.New(apperr.CodeForbidden, "not the review author")
	}

	rv.Rating = rating
	rv.Description = description
	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "review update failed", err)
	}
	return rv, nil
}

func (s *service) RatingsByProduct(ctx context.Context, productID uuid.UUID) ([]int, error) {
	reviews, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "review listing failed", err)
	}
	ratings := make([]int, 0, len(reviews))
	for _, rv := range reviews {
		ratings = append(ratings, rv.Rating)
	}
	return ratings, nil
}

func (s *service) requireProduct(ctx context.Context, productID uuid.UUID) error {
	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "product lookup failed", err)
	}
	if !exists {
		return apperr.New(apperr.CodeNotFound, "product not found")
	}
	return nil
}

func validateFields(rating int, description string) error {
	if rating < 1 || rating > 5 {
		return apperr.New(apperr.CodeBadRequest, "rating must be between 1 and 5")
	}
	if description == "" {
		return apperr.New(apperr.CodeBadRequest, "description is required")
	}
	return nil
}
