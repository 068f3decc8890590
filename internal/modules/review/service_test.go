package review

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funroad/funroad-backend/internal/apperr"
)

type fakeReviewRepo struct {
	byID    map[uuid.UUID]*Review
	created []*Review
	updated []*Review
}

func (f *fakeReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	return f.byID[id], nil
}

func (f *fakeReviewRepo) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*Review, error) {
	for _, rv := range f.byID {
		if rv.UserID == userID && rv.ProductID == productID {
			return rv, nil
		}
	}
	return nil, nil
}

func (f *fakeReviewRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*Review, error) {
	var out []*Review
	for _, rv := range f.byID {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) Create(ctx context.Context, rv *Review) error {
	if f.byID == nil {
		f.byID = map[uuid.UUID]*Review{}
	}
	f.byID[rv.ID] = rv
	f.created = append(f.created, rv)
	return nil
}

func (f *fakeReviewRepo) Update(ctx context.Context, rv *Review) error {
	f.byID[rv.ID] = rv
	f.updated = append(f.updated, rv)
	return nil
}

type fakeFinder struct{ exists map[uuid.UUID]bool }

func (f *fakeFinder) Exists(ctx context.Context, productID uuid.UUID) (bool, error) {
	return f.exists[productID], nil
}

type fakeChecker struct{ entitled map[uuid.UUID]bool }

func (f *fakeChecker) IsEntitled(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return f.entitled[productID], nil
}

func TestCreateReview(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()
	repo := &fakeReviewRepo{}
	svc := NewService(repo,
		&fakeFinder{exists: map[uuid.UUID]bool{productID: true}},
		&fakeChecker{entitled: map[uuid.UUID]bool{productID: true}})

	rv, err := svc.Create(context.Background(), userID, productID, 4, "solid course")
	require.NoError(t, err)
	assert.Equal(t, 4, rv.Rating)
	assert.Equal(t, userID, rv.UserID)
	require.Len(t, repo.created, 1)
}

func TestCreateRequiresPurchase(t *testing.T) {
	productID := uuid.New()
	repo := &fakeReviewRepo{}
	svc := NewService(repo,
		&fakeFinder{exists: map[uuid.UUID]bool{productID: true}},
		&fakeChecker{})

	_, err := svc.Create(context.Background(), uuid.New(), productID, 5, "never bought it")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
	assert.Equal(t, "product not purchased", apperr.MessageOf(err))
	assert.Empty(t, repo.created)
}

func TestCreateRejectsDuplicate(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()
	repo := &fakeReviewRepo{}
	svc := NewService(repo,
		&fakeFinder{exists: map[uuid.UUID]bool{productID: true}},
		&fakeChecker{entitled: map[uuid.UUID]bool{productID: true}})

	_, err := svc.Create(context.Background(), userID, productID, 5, "first")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), userID, productID, 3, "second thoughts")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
	assert.Equal(t, "product already reviewed", apperr.MessageOf(err))
	assert.Len(t, repo.created, 1)
}

func TestCreateValidatesFields(t *testing.T) {
	productID := uuid.New()
	svc := NewService(&fakeReviewRepo{},
		&fakeFinder{exists: map[uuid.UUID]bool{productID: true}},
		&fakeChecker{entitled: map[uuid.UUID]bool{productID: true}})

	for _, tc := range []struct {
		rating int
		desc   string
	}{
		{0, "too low"},
		{6, "too high"},
		{3, ""},
	} {
		_, err := svc.Create(context.Background(), uuid.New(), productID, tc.rating, tc.desc)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
	}
}

func TestCreateUnknownProduct(t *testing.T) {
	svc := NewService(&fakeReviewRepo{}, &fakeFinder{}, &fakeChecker{})

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), 5, "ghost product")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestUpdateOwnReview(t *testing.T) {
	userID := uuid.New()
	rv := &Review{ID: uuid.New(), ProductID: uuid.New(), UserID: userID, Rating: 2, Description: "meh"}
	repo := &fakeReviewRepo{byID: map[uuid.UUID]*Review{rv.ID: rv}}
	svc := NewService(repo, &fakeFinder{}, &fakeChecker{})

	got, err := svc.Update(context.Background(), userID, rv.ID, 5, "grew on me")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, "grew on me", got.Description)
	require.Len(t, repo.updated, 1)
}

func TestUpdateRejectsNonAuthor(t *testing.T) {
	rv := &Review{ID: uuid.New(), ProductID: uuid.New(), UserID: uuid.New(), Rating: 2, Description: "meh"}
	repo := &fakeReviewRepo{byID: map[uuid.UUID]*Review{rv.ID: rv}}
	svc := NewService(repo, &fakeFinder{}, &fakeChecker{})

	_, err := svc.Update(context.Background(), uuid.New(), rv.ID, 5, "not mine")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
	assert.Empty(t, repo.updated)
}

func TestUpdateUnknownReview(t *testing.T) {
	svc := NewService(&fakeReviewRepo{}, &fakeFinder{}, &fakeChecker{})

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), 5, "nothing here")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestGetOneReturnsNilWithoutReview(t *testing.T) {
	productID := uuid.New()
	svc := NewService(&fakeReviewRepo{},
		&fakeFinder{exists: map[uuid.UUID]bool{productID: true}},
		&fakeChecker{})

	rv, err := svc.GetOne(context.Background(), uuid.New(), productID)
	require.NoError(t, err)
	assert.Nil(t, rv)
}

func TestRatingsByProduct(t *testing.T) {
	productID := uuid.New()
	r1 := &Review{ID: uuid.New(), ProductID: productID, UserID: uuid.New(), Rating: 5}
	r2 := &Review{ID: uuid.New(), ProductID: productID, UserID: uuid.New(), Rating: 3}
	other := &Review{ID: uuid.New(), ProductID: uuid.New(), UserID: uuid.New(), Rating: 1}
	repo := &fakeReviewRepo{byID: map[uuid.UUID]*Review{r1.ID: r1, r2.ID: r2, other.ID: other}}
	svc := NewService(repo, &fakeFinder{}, &fakeChecker{})

	ratings, err := svc.RatingsByProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{5, 3}, ratings)
}
