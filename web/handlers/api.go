package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/piljoong/actioncoach/internal/classify"
	"github.com/piljoong/actioncoach/internal/coach"
	"github.com/piljoong/actioncoach/internal/config"
	"github.com/piljoong/actioncoach/internal/storage"
)

// CoachHandlers serves the analysis API endpoints.
type CoachHandlers struct {
	service  *coach.Service
	store    storage.SituationStore
	cfg      *config.Config
	sessions *SessionTracker
}

// NewCoachHandlers creates the API handler set.
func NewCoachHandlers(service *coach.Service, store storage.SituationStore, cfg *config.Config, sessions *SessionTracker) *CoachHandlers {
	return &CoachHandlers{
		service:  service,
		store:    store,
		cfg:      cfg,
		sessions: sessions,
	}
}

// Categories handles GET /api/categories — the selectable categories with
// display metadata, in classifier priority order.
func (h *CoachHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	rules := classify.Rules()
	categories := make([]CategoryInfo, 0, len(rules))
	for _, rule := range rules {
		categories = append(categories, CategoryInfo{
			ID:          string(rule.Category),
			Name:        rule.Name,
			Description: rule.Description,
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

// Health handles GET /api/health.
func (h *CoachHandlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := HealthResponse{
		Status:           "ok",
		Storage:          "ok",
		Provider:         h.cfg.LLM.Provider,
		KeyConfigured:    h.cfg.GenerationKeyConfigured(),
		RetrievalEnabled: h.service.RetrievalEnabled(),
	}

	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Storage = "unreachable"
	} else if n, err := h.store.Count(ctx); err == nil {
		resp.Situations = n
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}

// parseInt parses s as an int, returning defaultValue on empty or bad input.
func parseInt(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return val
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers already sent; nothing to do but log.
		fmt.Printf("failed to encode JSON response: %v\n", err)
	}
}

// respondError writes an error response with the given status code.
func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	errResp := ErrorResponse{
		Error: message,
		Code:  http.StatusText(statusCode),
	}

	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}
	}

	respondJSON(w, statusCode, errResp)
}
