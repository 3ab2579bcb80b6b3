// Package ranker provides the two port.Ranker implementations: an external
// process exchanging one JSON request/response over stdio, and a builtin
// in-process engine with the same scoring strategy.
package ranker

import (
	"strconv"

	"github.com/greencart/ecostore/internal/core/domain"
)

// Wire types of the ranking exchange. The request is a single JSON object
// on the delegate's stdin, the response a single JSON array on its stdout.
type (
	wireRequest struct {
		Products []wireProduct `json:"products"`
		Type     string        `json:"type"`
		UserData wireUserData  `json:"user_data"`
		Limit    int           `json:"limit"`
	}

	wireUserData struct {
		Age           int                `json:"age"`
		Gender        string             `json:"gender"`
		CartItems     []wireCartItem     `json:"cart_items,omitempty"`
		WishlistItems []wireWishlistItem `json:"wishlist_items,omitempty"`
		Viewed        []wireProduct      `json:"viewed_products,omitempty"`
	}

	wireCartItem struct {
		Product  wireProduct `json:"product"`
		Quantity int         `json:"quantity"`
	}

	wireWishlistItem struct {
		Product wireProduct `json:"product"`
	}

	wireProduct struct {
		ID       int64   `json:"id"`
		Title    string  `json:"title"`
		Text     string  `json:"text"`
		Category string  `json:"category"`
		Price    float64 `json:"price"`
		EcoScore string  `json:"eco_score"`
		// RecommendationScore is present and positive only when a real
		// personalization signal produced the position.
		RecommendationScore float64 `json:"recommendation_score,omitempty"`
	}
)

func toWireRequest(req domain.RankRequest) wireRequest {
	wr := wireRequest{
		Type:  req.Mode,
		Limit: req.Limit,
		UserData: wireUserData{
			Age:    req.User.Age,
			Gender: req.User.Gender,
		},
	}

	wr.Products = make([]wireProduct, len(req.Candidates))
	for i, p := range req.Candidates {
		wr.Products[i] = toWireProduct(p)
	}

	for _, item := range req.CartItems {
		wr.UserData.CartItems = append(wr.UserData.CartItems, wireCartItem{
			Product:  toWireProduct(item.Product),
			Quantity: item.Quantity,
		})
	}
	for _, item := range req.WishlistItems {
		wr.UserData.WishlistItems = append(
			wr.UserData.WishlistItems,
			wireWishlistItem{Product: toWireProduct(item.Product)},
		)
	}
	for _, p := range req.Viewed {
		wr.UserData.Viewed = append(wr.UserData.Viewed, toWireProduct(p))
	}
	return wr
}

func toWireProduct(p domain.Product) wireProduct {
	return wireProduct{
		ID:       p.ID,
		Title:    p.Title,
		Text:     p.Text,
		Category: p.Category,
		Price:    p.Price,
		EcoScore: p.EcoScore,
	}
}

// fromWireProducts maps the ranked response back onto the candidates the
// request carried, so callers keep full product rows. Unknown ids are
// skipped.
func fromWireProducts(
	candidates []domain.Product, ws []wireProduct,
) []domain.RankedProduct {
	byID := make(map[int64]domain.Product, len(candidates))
	for _, p := range candidates {
		byID[p.ID] = p
	}

	ranked := make([]domain.RankedProduct, 0, len(ws))
	for _, w := range ws {
		p, ok := byID[w.ID]
		if !ok {
			continue
		}
		ranked = append(ranked, domain.RankedProduct{
			Product: p,
			Score:   w.RecommendationScore,
		})
	}
	return ranked
}

func scoreFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
