package ranker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/greencart/ecostore/internal/core/domain"
)

func TestProcessRanker(t *testing.T) {
	req := domain.RankRequest{
		Mode: domain.RankModeColdStart,
		User: domain.User{ID: 1, Age: 30, Gender: "female"},
		Candidates: []domain.Product{
			{ID: 1, Title: "Bamboo Serving Board"},
			{ID: 2, Title: "Hemp Tote Bag"},
		},
		Limit: 5,
	}

	t.Run("OrdinaryExchange", func(t *testing.T) {
		r := NewProcessRanker("sh", "-c",
			`cat >/dev/null; printf '[{"id":2,"recommendation_score":7.5},{"id":1},{"id":99}]'`,
		)

		ranked, err := r.Rank(t.Context(), req)
		require.NoError(t, err)

		// Unknown id 99 is dropped, the rest keep the delegate's order.
		require.Len(t, ranked, 2)
		require.EqualValues(t, 2, ranked[0].Product.ID)
		require.InDelta(t, 7.5, ranked[0].Score, 1e-9)
		require.EqualValues(t, 1, ranked[1].Product.ID)
		require.Zero(t, ranked[1].Score)
	})

	t.Run("RequestReachesStdin", func(t *testing.T) {
		r := NewProcessRanker("sh", "-c",
			`grep -q '"type":"cold_start"' - && printf '[]'`,
		)

		ranked, err := r.Rank(t.Context(), req)
		require.NoError(t, err)
		require.Empty(t, ranked)
	})

	t.Run("NonZeroExit", func(t *testing.T) {
		r := NewProcessRanker("sh", "-c", "exit 3")

		_, err := r.Rank(t.Context(), req)
		require.ErrorIs(t, err, domain.ErrRankerUnavailable)
	})

	t.Run("MalformedOutput", func(t *testing.T) {
		r := NewProcessRanker("sh", "-c", `cat >/dev/null; echo not-json`)

		_, err := r.Rank(t.Context(), req)
		require.ErrorIs(t, err, domain.ErrRankerUnavailable)
	})

	t.Run("MissingBinary", func(t *testing.T) {
		r := NewProcessRanker("/nonexistent/ranker-delegate")

		_, err := r.Rank(t.Context(), req)
		require.ErrorIs(t, err, domain.ErrRankerUnavailable)
	})
}
