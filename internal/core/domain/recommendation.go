package domain

// Ranking modes sent to the ranker delegate.
const (
	RankModeColdStart    = "cold_start"
	RankModePersonalized = "personalized"
)

type (
	// A RankRequest carries the candidate pool plus the user context the
	// ranker needs. Candidates are always present regardless of mode;
	// activity detail is populated for the personalized mode only.
	RankRequest struct {
		Mode          string
		User          User
		Candidates    []Product
		CartItems     []CartItem
		WishlistItems []WishlistItem
		Viewed        []Product
		Limit         int
	}

	// A RankedProduct is a candidate annotated by the ranker. A positive
	// Score means a real personalization signal produced the position;
	// zero means generic ordering.
	RankedProduct struct {
		Product Product
		Score   float64
	}
)
