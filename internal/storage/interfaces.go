// Package storage defines the situation store interface and shared types.
// Two implementations exist: postgres (pgvector-backed similarity) and
// sqlite (embedded, in-process cosine similarity).
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/piljoong/actioncoach/internal/classify"
)

// Common storage errors.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

// Situation is the persisted record of one analyzed situation. Records are
// insert-only: analysis and embedding are write-once snapshots, and no
// update or delete path exists.
type Situation struct {
	ID             string            `json:"id"`
	Text           string            `json:"situation"`
	Category       classify.Category `json:"category"`
	Analysis       string            `json:"analysis"`
	Embedding      []float32         `json:"-"`
	EmbeddingModel string            `json:"-"`
	CreatedAt      time.Time         `json:"created_at"`
}

// Validate checks the invariants required before insert. dim is the store's
// configured embedding dimensionality; every stored embedding must match it.
func (s *Situation) Validate(dim int) error {
	if strings.TrimSpace(s.Text) == "" {
		return fmt.Errorf("%w: situation text is required", ErrInvalidInput)
	}
	if len(s.Embedding) == 0 {
		return fmt.Errorf("%w: embedding is required", ErrInvalidInput)
	}
	if len(s.Embedding) != dim {
		return fmt.Errorf("%w: embedding length (%d) does not match dimension (%d)",
			ErrInvalidInput, len(s.Embedding), dim)
	}
	if !s.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s.Category)
	}
	if s.Analysis == "" {
		return fmt.Errorf("%w: analysis is required", ErrInvalidInput)
	}
	return nil
}

// SimilarityMatch pairs a stored situation with its similarity score in [0,1].
// Matches are transient retrieval output; they are never persisted.
type SimilarityMatch struct {
	Situation Situation `json:"situation"`
	Score     float64   `json:"score"`
}

// SimilarityOptions bounds a similarity query.
type SimilarityOptions struct {
	// Limit is the maximum number of matches returned (default 3).
	Limit int

	// MinScore excludes matches scoring below it (default 0.7).
	MinScore float64
}

// Normalize applies defaults and clamps out-of-range values. A zero or
// negative MinScore counts as unset and takes the 0.7 default.
func (o *SimilarityOptions) Normalize() {
	if o.Limit <= 0 {
		o.Limit = 3
	}
	if o.MinScore <= 0 {
		o.MinScore = 0.7
	}
	if o.MinScore > 1 {
		o.MinScore = 1
	}
}

// SituationStore is the persistence interface for situations.
//
// FindSimilar returns at most opts.Limit matches with score >= opts.MinScore,
// sorted by descending score with ties broken most-recent-first.
type SituationStore interface {
	Save(ctx context.Context, sit *Situation) error
	Get(ctx context.Context, id string) (*Situation, error)
	FindSimilar(ctx context.Context, query []float32, opts SimilarityOptions) ([]SimilarityMatch, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}
