package domain

type (
	// A Product is a catalog row enriched for display.
	//
	// EcoScore is the canonical decimal string shown to clients. The zero
	// sentinel "0" means the stored score is absent and the catalog service
	// substitutes the fallback estimate on read.
	Product struct {
		ID            int64
		Title         string
		Text          string
		Category      string
		MainCategory  string
		Price         float64
		AverageRating float64
		EcoScore      string
		Images        string
		ASIN          string
		ParentASIN    string
		Details       map[string]string
	}

	// A ProductViewCount pairs a product id with its accumulated view total.
	ProductViewCount struct {
		ProductID int64
		Views     int64
	}
)
