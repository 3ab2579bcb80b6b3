package httphandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greencart/ecostore/internal/core/domain"
)

type fakeUsers struct {
	user    domain.User
	session domain.Session
	touched []int64
}

func (f *fakeUsers) Register(
	_ context.Context, username string, age int, gender string,
) (domain.User, error) {
	return domain.User{ID: 7, Username: username, Age: age, Gender: gender}, nil
}

func (f *fakeUsers) User(_ context.Context, id int64) (domain.User, error) {
	if id != f.user.ID {
		return domain.User{}, domain.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeUsers) TouchSession(_ context.Context, userID int64, _ string) error {
	f.touched = append(f.touched, userID)
	return nil
}

func (f *fakeUsers) Session(_ context.Context, userID int64) (domain.Session, error) {
	if f.session.UserID != userID {
		return domain.Session{}, domain.ErrNotFound
	}
	return f.session, nil
}

type fakeCatalog struct {
	product  domain.Product
	imported int
}

func (f *fakeCatalog) Product(_ context.Context, id int64) (domain.Product, error) {
	if id != f.product.ID {
		return domain.Product{}, domain.ErrNotFound
	}
	return f.product, nil
}

func (f *fakeCatalog) Products(context.Context, int, int) ([]domain.Product, error) {
	return []domain.Product{f.product}, nil
}

func (f *fakeCatalog) Search(context.Context, string, int) ([]domain.Product, error) {
	return []domain.Product{f.product}, nil
}

func (f *fakeCatalog) ByCategory(context.Context, string, int) ([]domain.Product, error) {
	return []domain.Product{f.product}, nil
}

func (f *fakeCatalog) Trending(context.Context, int) ([]domain.Product, error) {
	return []domain.Product{f.product}, nil
}

func (f *fakeCatalog) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	p.ID = 99
	return p, nil
}

func (f *fakeCatalog) Update(context.Context, domain.Product) error {
	return nil
}

func (f *fakeCatalog) Import(_ context.Context, ps []domain.Product) (int, error) {
	f.imported = len(ps)
	return len(ps), nil
}

type fakeRecommender struct{}

func (fakeRecommender) Recommend(
	context.Context, int64, int,
) ([]domain.RankedProduct, error) {
	return []domain.RankedProduct{
		{Product: domain.Product{ID: 1, EcoScore: "30"}, Score: 12.5},
	}, nil
}

func newTestMux(users *fakeUsers, catalog *fakeCatalog) *http.ServeMux {
	mux := http.NewServeMux()
	ident := NewIdentity(users)
	RegisterUsers(mux, users, ident)
	RegisterProducts(mux, catalog)
	RegisterRecommendations(mux, fakeRecommender{}, ident)
	return mux
}

func identityCookie(value string) *http.Cookie {
	return &http.Cookie{Name: IdentityCookie, Value: value}
}

func TestIdentityMiddleware(t *testing.T) {
	users := &fakeUsers{user: domain.User{ID: 7, Username: "eco"}}
	mux := newTestMux(users, &fakeCatalog{})

	t.Run("NoCookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/users/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("MalformedCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
		req.AddCookie(identityCookie("not-a-number"))

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("TouchesSession", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
		req.AddCookie(identityCookie("7"))

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, users.touched, int64(7))
		assert.Contains(t, rec.Body.String(), `"username":"eco"`)
	})
}

func TestGetMeLastSeen(t *testing.T) {
	t.Run("IncludesLastSeen", func(t *testing.T) {
		users := &fakeUsers{
			user: domain.User{ID: 7, Username: "eco"},
			session: domain.Session{
				UserID:   7,
				Client:   "curl/8.5.0",
				LastSeen: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
			},
		}
		mux := newTestMux(users, &fakeCatalog{})

		req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
		req.AddCookie(identityCookie("7"))

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"last_seen":"2026-08-30T12:00:00Z"`)
	})

	t.Run("OmittedWithoutSession", func(t *testing.T) {
		users := &fakeUsers{user: domain.User{ID: 7, Username: "eco"}}
		mux := newTestMux(users, &fakeCatalog{})

		req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
		req.AddCookie(identityCookie("7"))

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "last_seen")
	})
}

func TestCreateUserSetsCookie(t *testing.T) {
	mux := newTestMux(&fakeUsers{}, &fakeCatalog{})

	body := strings.NewReader(`{"username": "eco", "age": 30, "gender": "female"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/users", body)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, IdentityCookie, cookies[0].Name)
	assert.Equal(t, "7", cookies[0].Value)
}

func TestProductRoutes(t *testing.T) {
	catalog := &fakeCatalog{
		product: domain.Product{ID: 1, Title: "Bamboo Serving Board", EcoScore: "40"},
	}
	mux := newTestMux(&fakeUsers{}, catalog)

	t.Run("GetProduct", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products/1", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"eco_score":"40"`)
	})

	t.Run("GetProductNotFound", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products/404", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("GetProductBadID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products/abc", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("SearchRequiresQuery", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products/search", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPostDataset(t *testing.T) {
	catalog := &fakeCatalog{}
	mux := newTestMux(&fakeUsers{}, catalog)

	t.Run("CSV", func(t *testing.T) {
		body := strings.NewReader("title,price\nBamboo Serving Board,24.50\n")
		req := httptest.NewRequest(http.MethodPost, "/v1/datasets", body)
		req.Header.Set("Content-Type", "text/csv")

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, 1, catalog.imported)
		assert.JSONEq(t, `{"imported": 1}`, rec.Body.String())
	})

	t.Run("UnsupportedMediaType", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/datasets", strings.NewReader("x"))
		req.Header.Set("Content-Type", "application/xml")

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetRecommendations(t *testing.T) {
	mux := newTestMux(&fakeUsers{user: domain.User{ID: 7}}, &fakeCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/v1/recommendations?limit=5", nil)
	req.AddCookie(identityCookie("7"))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recommendation_score":12.5`)
}

func TestAllowContent(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AllowContent(next)

	t.Run("EmptyBody", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("CSV", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a,b"))
		req.Header.Set("Content-Type", "text/csv")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Other", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("<x/>"))
		req.Header.Set("Content-Type", "application/xml")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}
