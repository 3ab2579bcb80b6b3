package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/greencart/ecostore/internal/core/domain"
	"github.com/greencart/ecostore/internal/core/port"
)

var _ port.Recommender = (*Recommender)(nil)

const (
	// DefaultPoolSize bounds the candidate pool handed to the ranker.
	DefaultPoolSize = 200
	// DefaultRecLimit is the result count when the caller asks for none.
	DefaultRecLimit = 20
	// personalizedViewThreshold: more than this many viewed products makes
	// a user personalized even with an empty cart and wishlist.
	personalizedViewThreshold = 2
)

// A Recommender decides the ranking mode per user, assembles the delegate
// request and masks every ranking failure behind the deterministic
// fallback: the unranked candidate pool truncated to the limit. The caller
// always receives a product list for this path, never an error from the
// ranker.
type Recommender struct {
	catalog  port.Catalog
	users    port.UsersStorage
	activity port.ActivityStorage
	ranker   port.Ranker
	poolSize int
}

func NewRecommender(
	catalog port.Catalog,
	users port.UsersStorage,
	activity port.ActivityStorage,
	ranker port.Ranker,
	poolSize int,
) Recommender {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	return Recommender{catalog, users, activity, ranker, poolSize}
}

func (r Recommender) Recommend(
	ctx context.Context, userID int64, limit int,
) ([]domain.RankedProduct, error) {
	const op = "Recommender.Recommend"
	log := slog.With("op", op)

	if limit <= 0 {
		limit = DefaultRecLimit
	}

	pool, err := r.catalog.Products(ctx, r.poolSize, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := r.assembleRequest(ctx, userID, pool, limit)
	if err != nil {
		log.Warn("falling back to unranked pool", "err", err)
		return fallback(pool, limit), nil
	}

	ranked, err := r.rank(ctx, req)
	if err != nil {
		log.Warn("falling back to unranked pool",
			"mode", req.Mode, "err", err)
		return fallback(pool, limit), nil
	}

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (r Recommender) assembleRequest(
	ctx context.Context, userID int64, pool []domain.Product, limit int,
) (domain.RankRequest, error) {
	user, err := r.users.UserByID(ctx, userID)
	if err != nil {
		return domain.RankRequest{}, err
	}

	cart, err := r.activity.CartItems(ctx, userID)
	if err != nil {
		return domain.RankRequest{}, err
	}

	wishlist, err := r.activity.WishlistItems(ctx, userID)
	if err != nil {
		return domain.RankRequest{}, err
	}

	viewed, err := r.activity.ViewedProducts(ctx, userID, 50)
	if err != nil {
		return domain.RankRequest{}, err
	}

	req := domain.RankRequest{
		Mode:       domain.RankModeColdStart,
		User:       user,
		Candidates: pool,
		Limit:      limit,
	}

	if len(cart) > 0 || len(wishlist) > 0 ||
		len(viewed) > personalizedViewThreshold {
		req.Mode = domain.RankModePersonalized
		req.CartItems = cart
		req.WishlistItems = wishlist
		req.Viewed = viewed
	}
	return req, nil
}

// rank shields the dispatcher from a misbehaving ranker implementation:
// a panic is reported as an error and handled by the fallback path.
func (r Recommender) rank(
	ctx context.Context, req domain.RankRequest,
) (ranked []domain.RankedProduct, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrRankerUnavailable, rec)
		}
	}()
	return r.ranker.Rank(ctx, req)
}

func fallback(pool []domain.Product, limit int) []domain.RankedProduct {
	if len(pool) > limit {
		pool = pool[:limit]
	}
	ranked := make([]domain.RankedProduct, len(pool))
	for i, p := range pool {
		ranked[i] = domain.RankedProduct{Product: p}
	}
	return ranked
}
