package port

import (
	"context"

	"github.com/greencart/ecostore/internal/core/domain"
)

// ProductsStorage is the relational read/write surface for products.
// Read methods return rows with the stored score already normalized;
// the fallback substitution happens in the catalog service.
type ProductsStorage interface {
	ProductByID(ctx context.Context, id int64) (domain.Product, error)
	ProductsByScore(ctx context.Context, limit, offset int) ([]domain.Product, error)
	ProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]domain.Product, error)
	ProductsByCategory(ctx context.Context, category string, limit int) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) error
	StoreProducts(ctx context.Context, ps []domain.Product) (int, error)
}

// UsersStorage persists users and the per-user session blob.
type UsersStorage interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	UserByID(ctx context.Context, id int64) (domain.User, error)
	SaveSession(ctx context.Context, s domain.Session) error
	SessionByUserID(ctx context.Context, userID int64) (domain.Session, error)
}

// ActivityStorage persists cart, wishlist and view history rows.
type ActivityStorage interface {
	UpsertCartItem(ctx context.Context, userID, productID int64, quantity int) error
	RemoveCartItem(ctx context.Context, userID, productID int64) error
	CartItems(ctx context.Context, userID int64) ([]domain.CartItem, error)
	AddWishlistItem(ctx context.Context, userID, productID int64) error
	RemoveWishlistItem(ctx context.Context, userID, productID int64) error
	WishlistItems(ctx context.Context, userID int64) ([]domain.WishlistItem, error)
	InsertView(ctx context.Context, userID, productID int64) error
	ViewedProducts(ctx context.Context, userID int64, limit int) ([]domain.Product, error)
}

// Ranker orders a candidate pool for one user. Implementations signal a
// delegate failure by wrapping domain.ErrRankerUnavailable; the dispatcher
// masks every failure with the deterministic fallback.
type Ranker interface {
	Rank(ctx context.Context, req domain.RankRequest) ([]domain.RankedProduct, error)
}

// ViewEventsProducer emits one analytics record per tracked view.
type ViewEventsProducer interface {
	ProduceView(ctx context.Context, evt domain.ViewEvent) error
}

// ViewCounts reads the accumulated per-product view totals.
type ViewCounts interface {
	TopViewed(limit int) ([]domain.ProductViewCount, error)
}

// Catalog is the inbound read/write port over the product repository with
// the display rule applied on every read path.
type Catalog interface {
	Product(ctx context.Context, id int64) (domain.Product, error)
	Products(ctx context.Context, limit, offset int) ([]domain.Product, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Product, error)
	ByCategory(ctx context.Context, category string, limit int) ([]domain.Product, error)
	Trending(ctx context.Context, limit int) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, p domain.Product) error
	Import(ctx context.Context, ps []domain.Product) (int, error)
}

// Activity is the inbound port for cart, wishlist and view tracking.
type Activity interface {
	AddToCart(ctx context.Context, userID, productID int64, quantity int) error
	RemoveFromCart(ctx context.Context, userID, productID int64) error
	Cart(ctx context.Context, userID int64) ([]domain.CartItem, error)
	AddToWishlist(ctx context.Context, userID, productID int64) error
	RemoveFromWishlist(ctx context.Context, userID, productID int64) error
	Wishlist(ctx context.Context, userID int64) ([]domain.WishlistItem, error)
	TrackView(ctx context.Context, userID, productID int64) error
	History(ctx context.Context, userID int64, limit int) ([]domain.Product, error)
}

// Users is the inbound port for user creation and identity.
type Users interface {
	Register(ctx context.Context, username string, age int, gender string) (domain.User, error)
	User(ctx context.Context, id int64) (domain.User, error)
	TouchSession(ctx context.Context, userID int64, client string) error
	Session(ctx context.Context, userID int64) (domain.Session, error)
}

// Recommender never fails on ranker problems: the worst case result is the
// generically ordered candidate pool truncated to the limit.
type Recommender interface {
	Recommend(ctx context.Context, userID int64, limit int) ([]domain.RankedProduct, error)
}
