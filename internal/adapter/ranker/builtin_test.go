package ranker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/greencart/ecostore/internal/core/domain"
)

func TestBuiltinRankerColdStart(t *testing.T) {
	r := NewBuiltinRanker()

	user := domain.User{ID: 1, Age: 30, Gender: "female"}
	candidates := []domain.Product{
		{ID: 2, Title: "Smart Speaker", Category: "Electronics", EcoScore: "50"},
		{ID: 1, Title: "Bamboo Serving Board", Category: "Home & Kitchen", EcoScore: "40"},
		{ID: 3, Title: "Car Wax", Category: "Automotive", EcoScore: "0"},
	}

	t.Run("OrdersByDemographicScore", func(t *testing.T) {
		ranked, err := r.Rank(t.Context(), domain.RankRequest{
			Mode:       domain.RankModeColdStart,
			User:       user,
			Candidates: candidates,
			Limit:      10,
		})
		require.NoError(t, err)
		require.Len(t, ranked, 2)

		// 40*0.6 + 10 (age band) + 5 (gender) beats 50*0.6.
		require.EqualValues(t, 1, ranked[0].Product.ID)
		require.InDelta(t, 39, ranked[0].Score, 1e-9)
		require.EqualValues(t, 2, ranked[1].Product.ID)
		require.InDelta(t, 30, ranked[1].Score, 1e-9)
	})

	t.Run("DropsZeroScores", func(t *testing.T) {
		ranked, err := r.Rank(t.Context(), domain.RankRequest{
			Mode:       domain.RankModeColdStart,
			User:       domain.User{ID: 1},
			Candidates: []domain.Product{candidates[2]},
			Limit:      10,
		})
		require.NoError(t, err)
		require.Empty(t, ranked)
	})

	t.Run("TruncatesToLimit", func(t *testing.T) {
		ranked, err := r.Rank(t.Context(), domain.RankRequest{
			Mode:       domain.RankModeColdStart,
			User:       user,
			Candidates: candidates,
			Limit:      1,
		})
		require.NoError(t, err)
		require.Len(t, ranked, 1)
		require.EqualValues(t, 1, ranked[0].Product.ID)
	})

	t.Run("Deterministic", func(t *testing.T) {
		req := domain.RankRequest{
			Mode:       domain.RankModeColdStart,
			User:       user,
			Candidates: candidates,
			Limit:      10,
		}
		first, err := r.Rank(t.Context(), req)
		require.NoError(t, err)

		for range 5 {
			again, err := r.Rank(t.Context(), req)
			require.NoError(t, err)
			require.Equal(t, first, again)
		}
	})
}

func TestBuiltinRankerPersonalized(t *testing.T) {
	r := NewBuiltinRanker()

	cartProduct := domain.Product{
		ID: 10, Title: "Bamboo Cutlery Set", Category: "Home",
		Price: 20, EcoScore: "40",
	}
	req := domain.RankRequest{
		Mode: domain.RankModePersonalized,
		User: domain.User{ID: 1, Age: 30, Gender: "female"},
		Candidates: []domain.Product{
			cartProduct,
			{
				ID: 4, Title: "Bamboo Serving Board", Category: "Home",
				Price: 22, EcoScore: "40",
			},
			{
				ID: 5, Title: "Gaming Mouse", Category: "Electronics",
				Price: 500, EcoScore: "0",
			},
		},
		CartItems: []domain.CartItem{{UserID: 1, Product: cartProduct, Quantity: 1}},
		Limit:     10,
	}

	ranked, err := r.Rank(t.Context(), req)
	require.NoError(t, err)

	// The product already in the cart and the unmatched one are dropped.
	require.Len(t, ranked, 1)
	require.EqualValues(t, 4, ranked[0].Product.ID)

	// demographic 39*0.3 + category 5 + price band 15 + eco floor 10 +
	// one shared title keyword 2.
	require.InDelta(t, 43.7, ranked[0].Score, 1e-9)
}
