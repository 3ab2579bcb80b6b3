package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/greencart/ecostore/internal/core/domain"
	"github.com/greencart/ecostore/internal/core/port"
)

var _ port.Activity = (*Activity)(nil)

// An Activity persists cart, wishlist and view history. View tracking also
// emits a best-effort analytics event: a producer failure is logged and
// never surfaces to the caller.
type Activity struct {
	storage  port.ActivityStorage
	catalog  port.Catalog
	producer port.ViewEventsProducer
}

func NewActivity(
	storage port.ActivityStorage,
	catalog port.Catalog,
	producer port.ViewEventsProducer,
) Activity {
	return Activity{storage, catalog, producer}
}

func (a Activity) AddToCart(
	ctx context.Context, userID, productID int64, quantity int,
) error {
	const op = "Activity.AddToCart"

	if _, err := a.catalog.Product(ctx, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if quantity <= 0 {
		quantity = 1
	}

	err := a.storage.UpsertCartItem(ctx, userID, productID, quantity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (a Activity) RemoveFromCart(
	ctx context.Context, userID, productID int64,
) error {
	const op = "Activity.RemoveFromCart"

	if err := a.storage.RemoveCartItem(ctx, userID, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (a Activity) Cart(
	ctx context.Context, userID int64,
) ([]domain.CartItem, error) {
	const op = "Activity.Cart"

	items, err := a.storage.CartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range items {
		items[i].Product = decorate(items[i].Product)
	}
	return items, nil
}

func (a Activity) AddToWishlist(
	ctx context.Context, userID, productID int64,
) error {
	const op = "Activity.AddToWishlist"

	if _, err := a.catalog.Product(ctx, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := a.storage.AddWishlistItem(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (a Activity) RemoveFromWishlist(
	ctx context.Context, userID, productID int64,
) error {
	const op = "Activity.RemoveFromWishlist"

	err := a.storage.RemoveWishlistItem(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (a Activity) Wishlist(
	ctx context.Context, userID int64,
) ([]domain.WishlistItem, error) {
	const op = "Activity.Wishlist"

	items, err := a.storage.WishlistItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range items {
		items[i].Product = decorate(items[i].Product)
	}
	return items, nil
}

func (a Activity) TrackView(
	ctx context.Context, userID, productID int64,
) error {
	const op = "Activity.TrackView"
	log := slog.With("op", op)

	p, err := a.catalog.Product(ctx, productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.storage.InsertView(ctx, userID, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if a.producer == nil {
		return nil
	}

	evt := domain.ViewEvent{
		UserID:   userID,
		Product:  p,
		ViewedAt: time.Now().UTC(),
	}
	if err := a.producer.ProduceView(ctx, evt); err != nil {
		log.Warn("failed to produce view event",
			"productID", productID, "err", err)
	}
	return nil
}

func (a Activity) History(
	ctx context.Context, userID int64, limit int,
) ([]domain.Product, error) {
	const op = "Activity.History"

	ps, err := a.storage.ViewedProducts(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return decorateAll(ps), nil
}
