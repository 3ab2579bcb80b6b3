package httphandler

import "github.com/greencart/ecostore/internal/core/domain"

type (
	Product struct {
		ID            int64             `json:"id"`
		Title         string            `json:"title"`
		Text          string            `json:"text"`
		Category      string            `json:"category"`
		MainCategory  string            `json:"main_category"`
		Price         float64           `json:"price"`
		AverageRating float64           `json:"average_rating"`
		EcoScore      string            `json:"eco_score"`
		Images        string            `json:"images"`
		ASIN          string            `json:"asin"`
		ParentASIN    string            `json:"parent_asin"`
		Details       map[string]string `json:"details,omitempty"`
	}

	User struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Age      int    `json:"age"`
		Gender   string `json:"gender"`
		LastSeen string `json:"last_seen,omitempty"`
	}

	CartItem struct {
		Product  Product `json:"product"`
		Quantity int     `json:"quantity"`
	}

	WishlistItem struct {
		Product Product `json:"product"`
	}

	RankedProduct struct {
		Product
		RecommendationScore float64 `json:"recommendation_score"`
	}
)

type (
	CreateUserRequest struct {
		Username string `json:"username"`
		Age      int    `json:"age"`
		Gender   string `json:"gender"`
	}

	CartAddRequest struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}

	WishlistAddRequest struct {
		ProductID int64 `json:"product_id"`
	}
)

func toProductDTO(p domain.Product) Product {
	return Product{
		ID:            p.ID,
		Title:         p.Title,
		Text:          p.Text,
		Category:      p.Category,
		MainCategory:  p.MainCategory,
		Price:         p.Price,
		AverageRating: p.AverageRating,
		EcoScore:      p.EcoScore,
		Images:        p.Images,
		ASIN:          p.ASIN,
		ParentASIN:    p.ParentASIN,
		Details:       p.Details,
	}
}

func toProductDTOs(ps []domain.Product) []Product {
	dtos := make([]Product, len(ps))
	for i, p := range ps {
		dtos[i] = toProductDTO(p)
	}
	return dtos
}

func toDomainProduct(p Product) domain.Product {
	return domain.Product{
		ID:            p.ID,
		Title:         p.Title,
		Text:          p.Text,
		Category:      p.Category,
		MainCategory:  p.MainCategory,
		Price:         p.Price,
		AverageRating: p.AverageRating,
		EcoScore:      p.EcoScore,
		Images:        p.Images,
		ASIN:          p.ASIN,
		ParentASIN:    p.ParentASIN,
		Details:       p.Details,
	}
}

func toUserDTO(u domain.User) User {
	return User{ID: u.ID, Username: u.Username, Age: u.Age, Gender: u.Gender}
}

func toCartDTOs(items []domain.CartItem) []CartItem {
	dtos := make([]CartItem, len(items))
	for i, item := range items {
		dtos[i] = CartItem{
			Product:  toProductDTO(item.Product),
			Quantity: item.Quantity,
		}
	}
	return dtos
}

func toWishlistDTOs(items []domain.WishlistItem) []WishlistItem {
	dtos := make([]WishlistItem, len(items))
	for i, item := range items {
		dtos[i] = WishlistItem{Product: toProductDTO(item.Product)}
	}
	return dtos
}

func toRankedDTOs(ranked []domain.RankedProduct) []RankedProduct {
	dtos := make([]RankedProduct, len(ranked))
	for i, r := range ranked {
		dtos[i] = RankedProduct{
			Product:             toProductDTO(r.Product),
			RecommendationScore: r.Score,
		}
	}
	return dtos
}
