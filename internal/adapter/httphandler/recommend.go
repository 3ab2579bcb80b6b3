package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/greencart/ecostore/internal/core/port"
)

type RecommendHandler struct {
	recommender port.Recommender
}

func RegisterRecommendations(
	mux *http.ServeMux, recommender port.Recommender, ident Identity,
) {
	h := RecommendHandler{recommender}
	mux.HandleFunc("GET /v1/recommendations", ident.Wrap(h.GetRecommendations))
}

// GetRecommendations only fails on persistence problems: ranker failures
// are already masked by the recommender with the fallback list.
func (h RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "RecommendHandler.GetRecommendations"
	log := slog.With("op", op)

	userID, _ := userIDFrom(r.Context())
	limit := queryInt(r, "limit", 0)

	ranked, err := h.recommender.Recommend(r.Context(), userID, limit)
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toRankedDTOs(ranked))
}
