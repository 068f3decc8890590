package entitlement

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funroad/funroad-backend/internal/apperr"
)

type fakeEntitlementRepo struct {
	rows []*Entitlement
	err  error
}

func (f *fakeEntitlementRepo) Find(ctx context.Context, userID, productID uuid.UUID) (*Entitlement, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.rows {
		if e.UserID == userID && e.ProductID == productID {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEntitlementRepo) ExistsBySession(ctx context.Context, sessionID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, e := range f.rows {
		if e.SessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEntitlementRepo) Create(ctx context.Context, e *Entitlement) error {
	f.rows = append(f.rows, e)
	return nil
}

func (f *fakeEntitlementRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*EntitlementPage, error) {
	var docs []*Entitlement
	for _, e := range f.rows {
		if e.UserID == userID {
			docs = append(docs, e)
		}
	}
	return &EntitlementPage{Docs: docs, Page: page, TotalDocs: len(docs), TotalPages: 1}, nil
}

func TestIsEntitled(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	repo := &fakeEntitlementRepo{rows: []*Entitlement{
		{ID: uuid.New(), UserID: userID, ProductID: productID, SessionID: "cs_1"},
	}}
	svc := NewService(repo)

	ok, err := svc.IsEntitled(context.Background(), userID, productID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsEntitled(context.Background(), userID, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsEntitledStoreFailure(t *testing.T) {
	svc := NewService(&fakeEntitlementRepo{err: assert.AnError})

	_, err := svc.IsEntitled(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
}

func TestGrantCreatesOnePerProduct(t *testing.T) {
	repo := &fakeEntitlementRepo{}
	svc := NewService(repo)

	userID := uuid.New()
	products := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	require.NoError(t, svc.Grant(context.Background(), "cs_1", userID, products))

	require.Len(t, repo.rows, 3)
	for i, e := range repo.rows {
		assert.Equal(t, products[i], e.ProductID)
		assert.Equal(t, userID, e.UserID)
		assert.Equal(t, "cs_1", e.SessionID)
	}
}

func TestGrantIsIdempotentOnSession(t *testing.T) {
	repo := &fakeEntitlementRepo{}
	svc := NewService(repo)

	userID := uuid.New()
	products := []uuid.UUID{uuid.New(), uuid.New()}
	require.NoError(t, svc.Grant(context.Background(), "cs_1", userID, products))
	// Duplicate webhook delivery.
	require.NoError(t, svc.Grant(context.Background(), "cs_1", userID, products))

	assert.Len(t, repo.rows, 2, "a redelivered session must not create new rows")
}

func TestGrantRequiresSessionID(t *testing.T) {
	svc := NewService(&fakeEntitlementRepo{})

	err := svc.Grant(context.Background(), "", uuid.New(), []uuid.UUID{uuid.New()})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
}
