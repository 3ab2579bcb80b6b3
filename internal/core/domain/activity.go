package domain

import "time"

type (
	// A CartItem is a (user, product) association with a quantity.
	CartItem struct {
		UserID    int64
		Product   Product
		Quantity  int
		CreatedAt time.Time
	}

	// A WishlistItem is a (user, product) association.
	WishlistItem struct {
		UserID    int64
		Product   Product
		CreatedAt time.Time
	}

	// A ViewEvent records one product view by one user.
	ViewEvent struct {
		UserID   int64
		Product  Product
		ViewedAt time.Time
	}
)
