package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/piljoong/actioncoach/internal/coach"
)

// maxSimilarResults bounds the k query parameter.
const maxSimilarResults = 10

// Similar handles GET /api/similar — semantic search over stored situations.
//
// Query parameters:
//   - q — the query text (required)
//   - k — maximum results (default 3, max 10)
//
// Retrieval is advisory: datastore failures produce an empty result set, not
// an error. Embedding provider failures are surfaced as 502.
func (h *CoachHandlers) Similar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	k := parseInt(r.URL.Query().Get("k"), 0)
	if k > maxSimilarResults {
		k = maxSimilarResults
	}

	matches, err := h.service.FindSimilar(r.Context(), query, k)
	if err != nil {
		switch {
		case errors.Is(err, coach.ErrEmptySituation):
			respondError(w, http.StatusBadRequest, "query is required", nil)
		case errors.Is(err, coach.ErrEmbedding):
			respondError(w, http.StatusBadGateway, "embedding failed", err)
		default:
			respondError(w, http.StatusInternalServerError, "internal error", err)
		}
		return
	}

	results := make([]SimilarResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, SimilarResult{
			ID:        m.Situation.ID,
			Situation: m.Situation.Text,
			Category:  string(m.Situation.Category),
			Analysis:  m.Situation.Analysis,
			CreatedAt: m.Situation.CreatedAt.Format(time.RFC3339),
			Score:     m.Score,
		})
	}

	respondJSON(w, http.StatusOK, SimilarResponse{
		Query:   query,
		Results: results,
		Count:   len(results),
	})
}
