package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityOptionsNormalize(t *testing.T) {
	tests := []struct {
		name         string
		opts         SimilarityOptions
		wantLimit    int
		wantMinScore float64
	}{
		{
			name:         "zero value takes both defaults",
			opts:         SimilarityOptions{},
			wantLimit:    3,
			wantMinScore: 0.7,
		},
		{
			name:         "explicit values kept",
			opts:         SimilarityOptions{Limit: 5, MinScore: 0.5},
			wantLimit:    5,
			wantMinScore: 0.5,
		},
		{
			name:         "negative limit takes default",
			opts:         SimilarityOptions{Limit: -1, MinScore: 0.9},
			wantLimit:    3,
			wantMinScore: 0.9,
		},
		{
			name:         "negative min score takes default",
			opts:         SimilarityOptions{Limit: 2, MinScore: -0.5},
			wantLimit:    2,
			wantMinScore: 0.7,
		},
		{
			name:         "min score above one is clamped",
			opts:         SimilarityOptions{Limit: 2, MinScore: 1.5},
			wantLimit:    2,
			wantMinScore: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Normalize()
			assert.Equal(t, tt.wantLimit, tt.opts.Limit)
			assert.Equal(t, tt.wantMinScore, tt.opts.MinScore)
		})
	}
}
