package storage

import (
	"context"
	"fmt"

	"github.com/greencart/ecostore/internal/core/domain"
	"github.com/greencart/ecostore/internal/core/port"
)

var _ port.ActivityStorage = (*ActivityRepository)(nil)

type ActivityRepository struct {
	sqldb sqldb
}

func NewActivityRepository(sqldb sqldb) ActivityRepository {
	return ActivityRepository{sqldb}
}

// UpsertCartItem is a single atomic increment-or-insert guarded by the
// (user_id, product_id) uniqueness constraint, so concurrent identical
// requests cannot race between a check and a write.
func (r ActivityRepository) UpsertCartItem(
	ctx context.Context, userID, productID int64, quantity int,
) error {
	const op = "ActivityRepository.UpsertCartItem"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO UPDATE SET
			quantity = cart_items.quantity + EXCLUDED.quantity;`

	if _, err := r.sqldb.ExecContext(ctx, query, userID, productID, quantity); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r ActivityRepository) RemoveCartItem(
	ctx context.Context, userID, productID int64,
) error {
	const op = "ActivityRepository.RemoveCartItem"

	query := `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2;`

	return r.deleteOne(ctx, op, query, userID, productID)
}

func (r ActivityRepository) CartItems(
	ctx context.Context, userID int64,
) ([]domain.CartItem, error) {
	const op = "ActivityRepository.CartItems"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT c.user_id, c.quantity, c.created_at,` + prefixedProductColumns("p") + `
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC;`

	rows, err := r.sqldb.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		err := scanJoined(rows, &item.Product,
			&item.UserID, &item.Quantity, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// AddWishlistItem is idempotent: re-adding a wished product is a no-op.
func (r ActivityRepository) AddWishlistItem(
	ctx context.Context, userID, productID int64,
) error {
	const op = "ActivityRepository.AddWishlistItem"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO wishlist_items (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING;`

	if _, err := r.sqldb.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r ActivityRepository) RemoveWishlistItem(
	ctx context.Context, userID, productID int64,
) error {
	const op = "ActivityRepository.RemoveWishlistItem"

	query := `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2;`

	return r.deleteOne(ctx, op, query, userID, productID)
}

func (r ActivityRepository) WishlistItems(
	ctx context.Context, userID int64,
) ([]domain.WishlistItem, error) {
	const op = "ActivityRepository.WishlistItems"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT w.user_id, w.created_at,` + prefixedProductColumns("p") + `
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC;`

	rows, err := r.sqldb.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		var item domain.WishlistItem
		err := scanJoined(rows, &item.Product, &item.UserID, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func (r ActivityRepository) InsertView(
	ctx context.Context, userID, productID int64,
) error {
	const op = "ActivityRepository.InsertView"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO viewed_products (user_id, product_id) VALUES ($1, $2);`

	if _, err := r.sqldb.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r ActivityRepository) ViewedProducts(
	ctx context.Context, userID int64, limit int,
) ([]domain.Product, error) {
	const op = "ActivityRepository.ViewedProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT` + prefixedProductColumns("p") + `
		FROM viewed_products v
		JOIN products p ON p.id = v.product_id
		WHERE v.user_id = $1
		ORDER BY v.viewed_at DESC
		LIMIT $2;`

	rows, err := r.sqldb.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ps []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r ActivityRepository) deleteOne(
	ctx context.Context, op, query string, args ...any,
) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.sqldb.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}
