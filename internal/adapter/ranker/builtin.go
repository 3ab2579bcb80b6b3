package ranker

import (
	"context"
	"sort"
	"strings"

	"github.com/greencart/ecostore/internal/core/domain"
	"github.com/greencart/ecostore/internal/core/port"
)

var _ port.Ranker = (*BuiltinRanker)(nil)

// BuiltinRanker scores candidates in-process with the same strategy the
// external delegate implements. It never fails and needs no subprocess,
// which makes it the safe default for single-binary deployments.
type BuiltinRanker struct{}

func NewBuiltinRanker() BuiltinRanker {
	return BuiltinRanker{}
}

func (BuiltinRanker) Rank(
	ctx context.Context, req domain.RankRequest,
) ([]domain.RankedProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ranked []domain.RankedProduct
	switch req.Mode {
	case domain.RankModePersonalized:
		ranked = rankPersonalized(req)
	default:
		ranked = rankColdStart(req)
	}

	if req.Limit > 0 && len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}
	return ranked, nil
}

// rankColdStart keeps candidates with a positive demographic score,
// highest first. Ties break on the stored eco score so equally matched
// products still order deterministically.
func rankColdStart(req domain.RankRequest) []domain.RankedProduct {
	var ranked []domain.RankedProduct
	for _, p := range req.Candidates {
		score := demographicScore(p, req.User)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, domain.RankedProduct{Product: p, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return scoreFloat(ranked[i].Product.EcoScore) >
			scoreFloat(ranked[j].Product.EcoScore)
	})
	return ranked
}

func rankPersonalized(req domain.RankRequest) []domain.RankedProduct {
	prefs := extractPreferences(req)

	owned := make(map[int64]bool)
	for _, item := range req.CartItems {
		owned[item.Product.ID] = true
	}
	for _, item := range req.WishlistItems {
		owned[item.Product.ID] = true
	}

	var ranked []domain.RankedProduct
	for _, p := range req.Candidates {
		if owned[p.ID] {
			continue
		}
		score := personalizedScore(p, req.User, prefs)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, domain.RankedProduct{Product: p, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

type preferences struct {
	categories   map[string]int
	priceMin     float64
	priceMax     float64
	ecoThreshold float64
	keywords     map[string]bool
}

// extractPreferences folds the user's cart, wishlist and view history into
// a taste profile: category counts, a widened price band, an eco-score
// floor at 80% of the observed mean, and title keywords.
func extractPreferences(req domain.RankRequest) preferences {
	prefs := preferences{
		categories: make(map[string]int),
		priceMin:   0,
		priceMax:   1000,
		keywords:   make(map[string]bool),
	}

	var interacted []domain.Product
	for _, item := range req.CartItems {
		interacted = append(interacted, item.Product)
	}
	for _, item := range req.WishlistItems {
		interacted = append(interacted, item.Product)
	}
	interacted = append(interacted, req.Viewed...)

	if len(interacted) == 0 {
		return prefs
	}

	var (
		minPrice = interacted[0].Price
		maxPrice = interacted[0].Price
		ecoSum   float64
	)
	for _, p := range interacted {
		if p.Category != "" {
			prefs.categories[strings.ToLower(p.Category)]++
		}
		if p.Price < minPrice {
			minPrice = p.Price
		}
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
		ecoSum += scoreFloat(p.EcoScore)

		for _, word := range strings.Fields(strings.ToLower(p.Title)) {
			if len(word) > 3 {
				prefs.keywords[word] = true
			}
		}
	}

	prefs.priceMin = minPrice * 0.8
	prefs.priceMax = maxPrice * 1.2
	prefs.ecoThreshold = ecoSum / float64(len(interacted)) * 0.8
	return prefs
}

func personalizedScore(
	p domain.Product, u domain.User, prefs preferences,
) float64 {
	score := demographicScore(p, u) * 0.3

	if n := prefs.categories[strings.ToLower(p.Category)]; n > 0 {
		score += float64(n) * 5
	}
	if p.Price >= prefs.priceMin && p.Price <= prefs.priceMax {
		score += 15
	}
	if scoreFloat(p.EcoScore) >= prefs.ecoThreshold {
		score += 10
	}

	text := strings.ToLower(p.Title + " " + p.Text)
	for word := range prefs.keywords {
		if strings.Contains(text, word) {
			score += 2
		}
	}
	return score
}

// demographicScore is the cold-start signal: the stored eco score carries
// most of the weight, with small bumps for age-band and gender category
// affinity.
func demographicScore(p domain.Product, u domain.User) float64 {
	score := scoreFloat(p.EcoScore) * 0.6

	category := strings.ToLower(p.Category)

	var ageCategories []string
	switch {
	case u.Age > 0 && u.Age < 25:
		ageCategories = []string{"electronics", "fashion", "sports"}
	case u.Age > 0 && u.Age < 40:
		ageCategories = []string{"home", "kitchen", "outdoor", "garden"}
	case u.Age >= 40:
		ageCategories = []string{"health", "improvement", "garden"}
	}
	for _, c := range ageCategories {
		if strings.Contains(category, c) {
			score += 10
			break
		}
	}

	var genderCategories []string
	switch strings.ToLower(u.Gender) {
	case "female":
		genderCategories = []string{"beauty", "fashion", "home"}
	case "male":
		genderCategories = []string{"tools", "automotive", "sports"}
	}
	for _, c := range genderCategories {
		if strings.Contains(category, c) {
			score += 5
			break
		}
	}
	return score
}
