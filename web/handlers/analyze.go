package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/piljoong/actioncoach/internal/coach"
)

// Analyze handles POST /api/analyze — the main pipeline endpoint.
//
// Request body: { "situation": string, "category"?: string }
//
// Responses:
//   - 200 with the generated guidance
//   - 400 for a missing or empty situation (no provider call is made)
//   - 429 when the session's free-analysis quota is exhausted
//   - 502 for embedding or generation provider failures; the details include
//     whether a provider credential is configured (boolean only)
func (h *CoachHandlers) Analyze(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessions.Resolve(w, r)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if h.sessions.Remaining(sessionID) <= 0 {
		respondError(w, http.StatusTooManyRequests, "free analysis quota exhausted", nil)
		return
	}

	result, err := h.service.Analyze(r.Context(), coach.AnalyzeRequest{
		Situation: req.Situation,
		Category:  req.Category,
	})
	if err != nil {
		h.respondAnalyzeError(w, err)
		return
	}

	remaining, ok := h.sessions.Consume(sessionID)
	if !ok {
		// Raced another request in the same session past the quota check.
		respondError(w, http.StatusTooManyRequests, "free analysis quota exhausted", nil)
		return
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{
		Analysis:     result.Analysis,
		Category:     string(result.Category),
		Timestamp:    result.Timestamp.Format(time.RFC3339),
		Provider:     result.Provider,
		SimilarCount: len(result.Similar),
		Remaining:    remaining,
	})
}

// respondAnalyzeError maps pipeline errors to HTTP responses.
func (h *CoachHandlers) respondAnalyzeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, coach.ErrEmptySituation):
		respondError(w, http.StatusBadRequest, "situation is required", nil)
	case errors.Is(err, coach.ErrGeneration), errors.Is(err, coach.ErrEmbedding):
		resp := ErrorResponse{
			Error: "analysis failed",
			Code:  http.StatusText(http.StatusBadGateway),
			Details: map[string]interface{}{
				"error":              err.Error(),
				"api_key_configured": h.cfg.GenerationKeyConfigured(),
			},
		}
		respondJSON(w, http.StatusBadGateway, resp)
	default:
		respondError(w, http.StatusInternalServerError, "internal error", err)
	}
}
