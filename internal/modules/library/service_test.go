package library

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funroad/funroad-backend/internal/apperr"
	"github.com/funroad/funroad-backend/internal/modules/entitlement"
	"github.com/funroad/funroad-backend/internal/modules/product"
)

type fakeEntitlements struct{ rows []*entitlement.Entitlement }

func (f *fakeEntitlements) Find(ctx context.Context, userID, productID uuid.UUID) (*entitlement.Entitlement, error) {
	for _, e := range f.rows {
		if e.UserID == userID && e.ProductID == productID {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEntitlements) ExistsBySession(ctx context.Context, sessionID string) (bool, error) {
	return false, nil
}

func (f *fakeEntitlements) Create(ctx context.Context, e *entitlement.Entitlement) error {
	f.rows = append(f.rows, e)
	return nil
}

func (f *fakeEntitlements) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*entitlement.EntitlementPage, error) {
	var docs []*entitlement.Entitlement
	for _, e := range f.rows {
		if e.UserID == userID {
			docs = append(docs, e)
		}
	}
	return &entitlement.EntitlementPage{Docs: docs, Page: page, TotalDocs: len(docs), TotalPages: 1}, nil
}

type fakeLibraryProducts struct{ byID map[uuid.UUID]*product.Product }

func (f *fakeLibraryProducts) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return f.byID[id], nil
}

func (f *fakeLibraryProducts) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*product.Product, error) {
	var out []*product.Product
	for _, id := range ids {
		if p := f.byID[id]; p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeLibraryReviews struct {
	ratings map[uuid.UUID][]int
	errs    map[uuid.UUID]error
}

func (f *fakeLibraryReviews) RatingsByProduct(ctx context.Context, productID uuid.UUID) ([]int, error) {
	if err := f.errs[productID]; err != nil {
		return nil, err
	}
	return f.ratings[productID], nil
}

func purchasedFixture() (uuid.UUID, *product.Product, *fakeEntitlements, *fakeLibraryProducts) {
	userID := uuid.New()
	p := &product.Product{ID: uuid.New(), Name: "Course", Price: 60, ProtectedContent: "secret download link"}
	ents := &fakeEntitlements{rows: []*entitlement.Entitlement{
		{ID: uuid.New(), UserID: userID, ProductID: p.ID, SessionID: "cs_1"},
	}}
	products := &fakeLibraryProducts{byID: map[uuid.UUID]*product.Product{p.ID: p}}
	return userID, p, ents, products
}

func TestGetOneUnlocksProtectedContent(t *testing.T) {
	userID, p, ents, products := purchasedFixture()
	reviews := &fakeLibraryReviews{ratings: map[uuid.UUID][]int{p.ID: {5, 4}}}
	svc := NewService(ents, entitlement.NewService(ents), products, reviews)

	item, err := svc.GetOne(context.Background(), userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret download link", item.ProtectedContent)
	assert.Equal(t, 2, item.ReviewCount)
	assert.Equal(t, 4.5, item.ReviewRating)
}

func TestGetOneUnentitledLooksMissing(t *testing.T) {
	_, p, ents, products := purchasedFixture()
	svc := NewService(ents, entitlement.NewService(ents), products, &fakeLibraryReviews{})

	// A different user never bought this product.
	_, err := svc.GetOne(context.Background(), uuid.New(), p.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	assert.Equal(t, "order not found", apperr.MessageOf(err))
}

func TestGetManyListsPurchases(t *testing.T) {
	userID := uuid.New()
	p1 := &product.Product{ID: uuid.New(), Name: "Course"}
	p2 := &product.Product{ID: uuid.New(), Name: "Ebook"}
	ents := &fakeEntitlements{rows: []*entitlement.Entitlement{
		{ID: uuid.New(), UserID: userID, ProductID: p1.ID, SessionID: "cs_1"},
		{ID: uuid.New(), UserID: userID, ProductID: p2.ID, SessionID: "cs_1"},
		{ID: uuid.New(), UserID: uuid.New(), ProductID: uuid.New(), SessionID: "cs_2"},
	}}
	products := &fakeLibraryProducts{byID: map[uuid.UUID]*product.Product{p1.ID: p1, p2.ID: p2}}
	reviews := &fakeLibraryReviews{ratings: map[uuid.UUID][]int{p1.ID: {3}}}
	svc := NewService(ents, entitlement.NewService(ents), products, reviews)

	page, err := svc.GetMany(context.Background(), userID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Docs, 2)
	assert.Equal(t, "Course", page.Docs[0].Name)
	assert.Equal(t, 1, page.Docs[0].ReviewCount)
	assert.Equal(t, 3.0, page.Docs[0].ReviewRating)
	assert.Zero(t, page.Docs[1].ReviewCount)
	assert.Equal(t, 2, page.TotalDocs)
}

func TestGetManyEmptyLibrary(t *testing.T) {
	ents := &fakeEntitlements{}
	svc := NewService(ents, entitlement.NewService(ents), &fakeLibraryProducts{}, &fakeLibraryReviews{})

	page, err := svc.GetMany(context.Background(), uuid.New(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Docs)
}

func TestGetManySystemicReviewFailure(t *testing.T) {
	userID, p, ents, products := purchasedFixture()
	reviews := &fakeLibraryReviews{errs: map[uuid.UUID]error{
		p.ID: apperr.Wrap(apperr.CodeInternal, "review listing failed", assert.AnError),
	}}
	svc := NewService(ents, entitlement.NewService(ents), products, reviews)

	_, err := svc.GetMany(context.Background(), userID, 1, 10)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
}
