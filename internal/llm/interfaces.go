package llm

import "context"

// TextGenerator is the interface for single-shot text completion.
// Guidance generation uses single-string completion style (not chat);
// the provider response is returned verbatim with no post-processing.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
	GetModel() string
}

// EmbeddingGenerator is the interface for generating vector embeddings.
// EmbedBatch is atomic and order-preserving: one vector per input text in
// input order, or an error and no vectors.
type EmbeddingGenerator interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	GetModel() string
}
