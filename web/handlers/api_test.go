package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	h, _ := newTestHandlers(t, &stubGenerator{response: "ok"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()
	h.Categories(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Categories []CategoryInfo `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Categories, 4)

	// Classifier priority order, general last.
	assert.Equal(t, "workplace", resp.Categories[0].ID)
	assert.Equal(t, "relationship", resp.Categories[1].ID)
	assert.Equal(t, "social", resp.Categories[2].ID)
	assert.Equal(t, "general", resp.Categories[3].ID)
	for _, c := range resp.Categories {
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Description)
	}
}

func TestHealth(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0, 0}}
	h, _ := newTestHandlers(t, &stubGenerator{response: "분석"}, emb)

	w := postAnalyze(h, `{"situation":"상사와 갈등이 있습니다"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Storage)
	assert.Equal(t, "gemini", resp.Provider)
	assert.True(t, resp.KeyConfigured)
	assert.True(t, resp.RetrievalEnabled)
	assert.Equal(t, 1, resp.Situations)
}

func TestHealthDegradedStorage(t *testing.T) {
	h, store := newTestHandlers(t, &stubGenerator{response: "ok"}, nil)
	require.NoError(t, store.Close())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unreachable", resp.Storage)
}
