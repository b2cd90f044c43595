// Package coach orchestrates the analysis pipeline: classify the situation,
// embed it, retrieve similar prior situations, generate behavioral guidance
// and persist the result. Generation is load-bearing; retrieval and
// persistence are advisory and degrade gracefully.
package coach

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/piljoong/actioncoach/internal/classify"
	"github.com/piljoong/actioncoach/internal/llm"
	"github.com/piljoong/actioncoach/internal/prompt"
	"github.com/piljoong/actioncoach/internal/storage"
)

// Pipeline errors. ErrEmptySituation is rejected before any provider call;
// ErrEmbedding and ErrGeneration wrap the underlying provider failure.
var (
	ErrEmptySituation = errors.New("situation text is required")
	ErrEmbedding      = errors.New("embedding failed")
	ErrGeneration     = errors.New("guidance generation failed")
)

// referenceSnippetLen caps how much of a similar situation's text is quoted
// back into the generation prompt.
const referenceSnippetLen = 200

// Service runs the analysis pipeline. All fields are set at construction and
// never mutated, so a single Service is safe for concurrent requests.
type Service struct {
	generator llm.TextGenerator
	embedder  llm.EmbeddingGenerator // nil disables retrieval and persistence
	store     storage.SituationStore
	opts      storage.SimilarityOptions
}

// NewService creates an analysis service. embedder may be nil when the
// configured provider has no embedding support; the pipeline then skips
// similarity retrieval and persistence and only generates guidance.
func NewService(generator llm.TextGenerator, embedder llm.EmbeddingGenerator, store storage.SituationStore, opts storage.SimilarityOptions) *Service {
	opts.Normalize()
	return &Service{
		generator: generator,
		embedder:  embedder,
		store:     store,
		opts:      opts,
	}
}

// AnalyzeRequest is the input to one analysis.
type AnalyzeRequest struct {
	// Situation is the user's free-form description. Required.
	Situation string

	// Category optionally overrides keyword classification. Ignored when it
	// is not one of the known labels.
	Category string
}

// AnalyzeResult is the outcome of one analysis.
type AnalyzeResult struct {
	Analysis  string
	Category  classify.Category
	Provider  string
	Timestamp time.Time
	Similar   []storage.SimilarityMatch
	Stored    bool
}

// Analyze runs the full pipeline for one situation.
//
// Ordering within a request is strict: classify, embed, retrieve, generate,
// save. A retrieval failure degrades to zero matches; a save failure is
// logged and never surfaced -- the guidance already generated is always
// returned. An embedding or generation failure aborts the request, and a
// failed generation means nothing is stored.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	situation := strings.TrimSpace(req.Situation)
	if situation == "" {
		return nil, ErrEmptySituation
	}

	category := s.resolveCategory(req)

	var embedding []float32
	var similar []storage.SimilarityMatch
	if s.embedder != nil {
		var err error
		embedding, err = s.embedder.Embed(ctx, situation)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
		}

		similar, err = s.store.FindSimilar(ctx, embedding, s.opts)
		if err != nil {
			// Retrieval is advisory: log and continue with zero matches.
			log.Printf("coach: similarity retrieval failed (continuing without matches): %v", err)
			similar = nil
		}
	}

	fullPrompt := prompt.Build(situation, category, referenceSnippets(similar))

	analysis, err := s.generator.Complete(ctx, fullPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	result := &AnalyzeResult{
		Analysis:  analysis,
		Category:  category,
		Provider:  s.generator.GetModel(),
		Timestamp: time.Now().UTC(),
		Similar:   similar,
	}

	if embedding != nil {
		sit := &storage.Situation{
			ID:             fmt.Sprintf("sit:%s:%s", category, uuid.New().String()),
			Text:           situation,
			Category:       category,
			Analysis:       analysis,
			Embedding:      embedding,
			EmbeddingModel: s.embedder.GetModel(),
		}
		if err := s.store.Save(ctx, sit); err != nil {
			// Persistence is best-effort: the response already has its guidance.
			log.Printf("coach: failed to save situation (response unaffected): %v", err)
		} else {
			result.Stored = true
		}
	}

	return result, nil
}

// FindSimilar embeds the query text and retrieves similar prior situations.
// Returns ErrEmptySituation for blank input and ErrEmbedding when the
// provider call fails; store errors degrade to an empty result.
func (s *Service) FindSimilar(ctx context.Context, query string, limit int) ([]storage.SimilarityMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptySituation
	}
	if s.embedder == nil {
		return []storage.SimilarityMatch{}, nil
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}

	opts := s.opts
	if limit > 0 {
		opts.Limit = limit
	}
	matches, err := s.store.FindSimilar(ctx, embedding, opts)
	if err != nil {
		log.Printf("coach: similarity retrieval failed (returning no matches): %v", err)
		return []storage.SimilarityMatch{}, nil
	}
	return matches, nil
}

// RetrievalEnabled reports whether embedding-backed retrieval is configured.
func (s *Service) RetrievalEnabled() bool {
	return s.embedder != nil
}

// resolveCategory prefers an explicit valid request category over keyword
// classification.
func (s *Service) resolveCategory(req AnalyzeRequest) classify.Category {
	if req.Category != "" {
		if cat, ok := classify.ParseCategory(req.Category); ok {
			return cat
		}
	}
	return classify.Classify(req.Situation)
}

// referenceSnippets extracts truncated situation texts from matches for use
// as prompt context.
func referenceSnippets(matches []storage.SimilarityMatch) []string {
	if len(matches) == 0 {
		return nil
	}
	snippets := make([]string, 0, len(matches))
	for _, m := range matches {
		text := m.Situation.Text
		if runes := []rune(text); len(runes) > referenceSnippetLen {
			text = string(runes[:referenceSnippetLen]) + "…"
		}
		snippets = append(snippets, text)
	}
	return snippets
}
