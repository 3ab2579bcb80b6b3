package service

import (
	"context"
	"errors"
	"testing"

	"github.com/greencart/ecostore/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsersStorage struct {
	user domain.User
	err  error
}

func (f *fakeUsersStorage) CreateUser(
	_ context.Context, u domain.User,
) (domain.User, error) {
	return u, nil
}

func (f *fakeUsersStorage) UserByID(
	_ context.Context, id int64,
) (domain.User, error) {
	return f.user, f.err
}

func (f *fakeUsersStorage) SaveSession(
	_ context.Context, s domain.Session,
) error {
	return nil
}

func (f *fakeUsersStorage) SessionByUserID(
	_ context.Context, userID int64,
) (domain.Session, error) {
	return domain.Session{}, domain.ErrNotFound
}

type fakeActivityStorage struct {
	cart     []domain.CartItem
	wishlist []domain.WishlistItem
	viewed   []domain.Product
}

func (f *fakeActivityStorage) UpsertCartItem(
	_ context.Context, userID, productID int64, quantity int,
) error {
	return nil
}

func (f *fakeActivityStorage) RemoveCartItem(
	_ context.Context, userID, productID int64,
) error {
	return nil
}

func (f *fakeActivityStorage) CartItems(
	_ context.Context, userID int64,
) ([]domain.CartItem, error) {
	return f.cart, nil
}

func (f *fakeActivityStorage) AddWishlistItem(
	_ context.Context, userID, productID int64,
) error {
	return nil
}

func (f *fakeActivityStorage) RemoveWishlistItem(
	_ context.Context, userID, productID int64,
) error {
	return nil
}

func (f *fakeActivityStorage) WishlistItems(
	_ context.Context, userID int64,
) ([]domain.WishlistItem, error) {
	return f.wishlist, nil
}

func (f *fakeActivityStorage) InsertView(
	_ context.Context, userID, productID int64,
) error {
	return nil
}

func (f *fakeActivityStorage) ViewedProducts(
	_ context.Context, userID int64, limit int,
) ([]domain.Product, error) {
	return f.viewed, nil
}

type fakeRanker struct {
	gotReq domain.RankRequest
	ranked []domain.RankedProduct
	err    error
	panics bool
}

func (f *fakeRanker) Rank(
	_ context.Context, req domain.RankRequest,
) ([]domain.RankedProduct, error) {
	f.gotReq = req
	if f.panics {
		panic("ranker exploded")
	}
	return f.ranked, f.err
}

func testPool(n int) []domain.Product {
	ps := make([]domain.Product, n)
	for i := range ps {
		ps[i] = domain.Product{
			ID:       int64(i + 1),
			Title:    "Steel Hammer",
			Text:     "heavy duty tool",
			Category: "Tools",
			EcoScore: "30",
		}
	}
	return ps
}

func newTestRecommender(
	activity *fakeActivityStorage, ranker *fakeRanker, poolLen int,
) Recommender {
	storage := &fakeProductsStorage{products: testPool(poolLen)}
	catalog := NewCatalog(storage, &fakeViewCounts{})
	users := &fakeUsersStorage{
		user: domain.User{ID: 9, Username: "eva", Age: 30, Gender: "female"},
	}
	return NewRecommender(catalog, users, activity, ranker, 200)
}

func TestRecommenderModeSelection(t *testing.T) {
	product := domain.Product{ID: 42, Title: "Bamboo Cup", EcoScore: "20"}

	tt := []struct {
		name     string
		activity *fakeActivityStorage
		wantMode string
	}{
		{
			name:     "NoActivityIsColdStart",
			activity: &fakeActivityStorage{},
			wantMode: domain.RankModeColdStart,
		},
		{
			name: "TwoViewsIsStillColdStart",
			activity: &fakeActivityStorage{
				viewed: []domain.Product{product, product},
			},
			wantMode: domain.RankModeColdStart,
		},
		{
			name: "ThreeViewsIsPersonalized",
			activity: &fakeActivityStorage{
				viewed: []domain.Product{product, product, product},
			},
			wantMode: domain.RankModePersonalized,
		},
		{
			name: "OneCartItemIsPersonalized",
			activity: &fakeActivityStorage{
				cart: []domain.CartItem{{UserID: 9, Product: product}},
			},
			wantMode: domain.RankModePersonalized,
		},
		{
			name: "OneWishlistItemIsPersonalized",
			activity: &fakeActivityStorage{
				wishlist: []domain.WishlistItem{{UserID: 9, Product: product}},
			},
			wantMode: domain.RankModePersonalized,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			ranker := &fakeRanker{}
			r := newTestRecommender(tc.activity, ranker, 5)

			_, err := r.Recommend(t.Context(), 9, 3)
			require.NoError(t, err)
			assert.Equal(t, tc.wantMode, ranker.gotReq.Mode)
		})
	}
}

func TestRecommenderAlwaysSuppliesPool(t *testing.T) {
	ranker := &fakeRanker{}
	r := newTestRecommender(&fakeActivityStorage{}, ranker, 5)

	_, err := r.Recommend(t.Context(), 9, 3)
	require.NoError(t, err)
	assert.Len(t, ranker.gotReq.Candidates, 5)
	assert.Equal(t, 3, ranker.gotReq.Limit)
}

func TestRecommenderFallback(t *testing.T) {
	t.Run("RankerError", func(t *testing.T) {
		ranker := &fakeRanker{err: domain.ErrRankerUnavailable}
		r := newTestRecommender(&fakeActivityStorage{}, ranker, 5)

		got, err := r.Recommend(t.Context(), 9, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		// pool order preserved, no personalization signal
		for i, rp := range got {
			assert.Equal(t, int64(i+1), rp.Product.ID)
			assert.Zero(t, rp.Score)
		}
	})

	t.Run("RankerPanic", func(t *testing.T) {
		ranker := &fakeRanker{panics: true}
		r := newTestRecommender(&fakeActivityStorage{}, ranker, 5)

		got, err := r.Recommend(t.Context(), 9, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		ranker := &fakeRanker{}
		storage := &fakeProductsStorage{products: testPool(5)}
		catalog := NewCatalog(storage, &fakeViewCounts{})
		users := &fakeUsersStorage{err: domain.ErrNotFound}
		r := NewRecommender(
			catalog, users, &fakeActivityStorage{}, ranker, 200,
		)

		got, err := r.Recommend(t.Context(), 404, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
	})
}

func TestRecommenderRankedResultTruncated(t *testing.T) {
	pool := testPool(5)
	ranked := make([]domain.RankedProduct, 5)
	for i := range ranked {
		ranked[i] = domain.RankedProduct{
			Product: pool[4-i], Score: float64(50 - i),
		}
	}
	ranker := &fakeRanker{ranked: ranked}
	r := newTestRecommender(&fakeActivityStorage{}, ranker, 5)

	got, err := r.Recommend(t.Context(), 9, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(5), got[0].Product.ID)
	assert.EqualValues(t, 50, got[0].Score)
}

func TestRecommenderPersistenceErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	storage := &erroringProductsStorage{err: boom}
	catalog := NewCatalog(storage, &fakeViewCounts{})
	r := NewRecommender(
		catalog, &fakeUsersStorage{}, &fakeActivityStorage{},
		&fakeRanker{}, 200,
	)

	_, err := r.Recommend(t.Context(), 9, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

type erroringProductsStorage struct {
	fakeProductsStorage
	err error
}

func (e *erroringProductsStorage) ProductsByScore(
	_ context.Context, limit, offset int,
) ([]domain.Product, error) {
	return nil, e.err
}
