package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piljoong/actioncoach/internal/classify"
	"github.com/piljoong/actioncoach/internal/storage"
)

const testDim = 4

func newTestStore(t *testing.T) *SituationStore {
	t.Helper()
	store, err := NewSituationStore(":memory:", testDim)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testSituation(id string, embedding []float32, createdAt time.Time) *storage.Situation {
	return &storage.Situation{
		ID:             id,
		Text:           "테스트 상황 " + id,
		Category:       classify.CategoryGeneral,
		Analysis:       "분석 " + id,
		Embedding:      embedding,
		EmbeddingModel: "test-model",
		CreatedAt:      createdAt,
	}
}

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sit := testSituation("sit:general:1", []float32{1, 0, 0, 0}, time.Time{})
	require.NoError(t, store.Save(ctx, sit))
	assert.False(t, sit.CreatedAt.IsZero(), "Save must assign a creation timestamp")

	got, err := store.Get(ctx, "sit:general:1")
	require.NoError(t, err)
	assert.Equal(t, sit.Text, got.Text)
	assert.Equal(t, sit.Category, got.Category)
	assert.Equal(t, sit.Analysis, got.Analysis)
	assert.Equal(t, sit.Embedding, got.Embedding)
	assert.Equal(t, "test-model", got.EmbeddingModel)
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "sit:general:missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaveValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name string
		sit  *storage.Situation
	}{
		{"missing id", testSituation("", []float32{1, 0, 0, 0}, now)},
		{"empty text", &storage.Situation{ID: "sit:x", Text: "   ", Category: classify.CategoryGeneral, Analysis: "a", Embedding: []float32{1, 0, 0, 0}}},
		{"empty embedding", &storage.Situation{ID: "sit:x", Text: "t", Category: classify.CategoryGeneral, Analysis: "a"}},
		{"wrong dimension", testSituation("sit:x", []float32{1, 0}, now)},
		{"bad category", &storage.Situation{ID: "sit:x", Text: "t", Category: "nope", Analysis: "a", Embedding: []float32{1, 0, 0, 0}}},
		{"missing analysis", &storage.Situation{ID: "sit:x", Text: "t", Category: classify.CategoryGeneral, Embedding: []float32{1, 0, 0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.Save(ctx, tt.sit), storage.ErrInvalidInput)
		})
	}
}

func TestSaveAllowsDuplicateText(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := testSituation("sit:general:a", []float32{1, 0, 0, 0}, time.Now())
	b := testSituation("sit:general:b", []float32{1, 0, 0, 0}, time.Now())
	b.Text = a.Text

	require.NoError(t, store.Save(ctx, a))
	require.NoError(t, store.Save(ctx, b))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFindSimilar(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Orthogonal and near-parallel vectors relative to the query (1,0,0,0).
	require.NoError(t, store.Save(ctx, testSituation("sit:general:exact", []float32{1, 0, 0, 0}, now.Add(-3*time.Hour))))
	require.NoError(t, store.Save(ctx, testSituation("sit:general:close", []float32{0.9, 0.1, 0, 0}, now.Add(-2*time.Hour))))
	require.NoError(t, store.Save(ctx, testSituation("sit:general:far", []float32{0, 1, 0, 0}, now.Add(-1*time.Hour))))

	matches, err := store.FindSimilar(ctx, []float32{1, 0, 0, 0}, storage.SimilarityOptions{Limit: 3, MinScore: 0.7})
	require.NoError(t, err)
	require.Len(t, matches, 2, "orthogonal vector must be excluded by threshold")

	// Sorted descending by score; the saved-then-retrieved exact match leads
	// with a score at the maximum.
	assert.Equal(t, "sit:general:exact", matches[0].Situation.ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Score, 0.7)
	}
}

func TestFindSimilarRespectsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("sit:general:%d", i)
		require.NoError(t, store.Save(ctx, testSituation(id, []float32{1, 0, 0, 0}, time.Now().UTC())))
	}

	matches, err := store.FindSimilar(ctx, []float32{1, 0, 0, 0}, storage.SimilarityOptions{Limit: 2, MinScore: 0.5})
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestFindSimilarTieBreakRecencyFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Identical vectors, identical scores. The newer record must come first.
	require.NoError(t, store.Save(ctx, testSituation("sit:general:old", []float32{1, 0, 0, 0}, now.Add(-2*time.Hour))))
	require.NoError(t, store.Save(ctx, testSituation("sit:general:new", []float32{1, 0, 0, 0}, now.Add(-1*time.Hour))))

	matches, err := store.FindSimilar(ctx, []float32{1, 0, 0, 0}, storage.SimilarityOptions{Limit: 2, MinScore: 0.5})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "sit:general:new", matches[0].Situation.ID)
	assert.Equal(t, "sit:general:old", matches[1].Situation.ID)
}

func TestFindSimilarDefaultThreshold(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// An orthogonal vector scores 0 against the query and a near-parallel
	// one scores above 0.7; zero-value options must apply the 0.7 default.
	require.NoError(t, store.Save(ctx, testSituation("sit:general:orth", []float32{0, 1, 0, 0}, now)))
	require.NoError(t, store.Save(ctx, testSituation("sit:general:close", []float32{0.9, 0.1, 0, 0}, now)))

	matches, err := store.FindSimilar(ctx, []float32{1, 0, 0, 0}, storage.SimilarityOptions{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "sit:general:close", matches[0].Situation.ID)
	assert.GreaterOrEqual(t, matches[0].Score, 0.7)
}

func TestFindSimilarEmptyStore(t *testing.T) {
	store := newTestStore(t)

	matches, err := store.FindSimilar(context.Background(), []float32{1, 0, 0, 0}, storage.SimilarityOptions{})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindSimilarRejectsBadQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.FindSimilar(ctx, nil, storage.SimilarityOptions{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	_, err = store.FindSimilar(ctx, []float32{1, 0}, storage.SimilarityOptions{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
