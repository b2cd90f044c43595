package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiComplete(t *testing.T) {
	var gotPath, gotKey string
	var gotReq geminiGenerateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"구체적인 행동 전략입니다."}]}}]}`))
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	text, err := client.Complete(context.Background(), "상황 설명")
	require.NoError(t, err)
	assert.Equal(t, "구체적인 행동 전략입니다.", text)

	assert.Equal(t, "/v1beta/models/gemini-2.0-flash-exp:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 1)
	assert.Equal(t, "상황 설명", gotReq.Contents[0].Parts[0].Text)
}

func TestGeminiCompleteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusForbidden)
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiConfig{APIKey: "bad", BaseURL: server.URL})

	_, err := client.Complete(context.Background(), "테스트")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestGeminiCompleteNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: server.URL})

	_, err := client.Complete(context.Background(), "테스트")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGeminiGetModel(t *testing.T) {
	assert.Equal(t, "gemini-2.0-flash-exp", NewGeminiClient(GeminiConfig{}).GetModel())
	assert.Equal(t, "gemini-1.5-pro", NewGeminiClient(GeminiConfig{Model: "gemini-1.5-pro"}).GetModel())
}
