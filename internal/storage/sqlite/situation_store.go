// Package sqlite provides an embedded SQLite implementation of the situation
// store. SQLite has no vector index, so similarity queries scan the
// situations table and compute cosine similarity in-process. That is fine at
// this store's scale and keeps local development dependency-free.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/piljoong/actioncoach/internal/classify"
	"github.com/piljoong/actioncoach/internal/storage"
)

// Schema contains the SQL statements to create the situations table.
const Schema = `
CREATE TABLE IF NOT EXISTS situations (
    id TEXT PRIMARY KEY,
    situation TEXT NOT NULL,
    category TEXT NOT NULL,
    analysis TEXT NOT NULL,
    embedding BLOB NOT NULL,
    dimension INTEGER NOT NULL,
    embedding_model TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_situations_category ON situations(category);
CREATE INDEX IF NOT EXISTS idx_situations_created_at ON situations(created_at DESC);
`

// SituationStore implements storage.SituationStore using SQLite.
type SituationStore struct {
	db  *sql.DB
	dim int
}

// Compile-time assertion.
var _ storage.SituationStore = (*SituationStore)(nil)

// NewSituationStore opens a SQLite database at the given DSN (a file path or
// ":memory:"), enables WAL mode and applies the schema. dim is the expected
// embedding dimensionality.
func NewSituationStore(dsn string, dim int) (*SituationStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive", storage.ErrInvalidInput)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	// Single writer; modernc.org/sqlite serializes access anyway and a larger
	// pool just produces SQLITE_BUSY under write contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to apply schema: %w", err)
	}

	return &SituationStore{db: db, dim: dim}, nil
}

// Save inserts one situation record. The ID must be set by the caller;
// CreatedAt is assigned here when zero.
func (s *SituationStore) Save(ctx context.Context, sit *storage.Situation) error {
	if sit.ID == "" {
		return fmt.Errorf("%w: situation ID is required", storage.ErrInvalidInput)
	}
	if err := sit.Validate(s.dim); err != nil {
		return err
	}
	if sit.CreatedAt.IsZero() {
		sit.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO situations (id, situation, category, analysis, embedding, dimension, embedding_model, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		sit.ID, sit.Text, string(sit.Category), sit.Analysis,
		storage.EncodeVector(sit.Embedding), s.dim, sit.EmbeddingModel, sit.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: failed to save situation: %w", err)
	}
	return nil
}

// Get retrieves a situation by ID. Returns storage.ErrNotFound when absent.
func (s *SituationStore) Get(ctx context.Context, id string) (*storage.Situation, error) {
	const query = `
		SELECT id, situation, category, analysis, embedding, embedding_model, created_at
		FROM situations
		WHERE id = ?
	`

	sit, err := scanSituation(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: situation %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to get situation: %w", err)
	}
	return sit, nil
}

// FindSimilar scans all stored situations, computes cosine similarity
// in-process, and returns at most opts.Limit matches with score >=
// opts.MinScore, most similar first with ties broken most-recent-first.
func (s *SituationStore) FindSimilar(ctx context.Context, query []float32, opts storage.SimilarityOptions) ([]storage.SimilarityMatch, error) {
	opts.Normalize()

	if len(query) == 0 {
		return nil, fmt.Errorf("%w: query vector is required", storage.ErrInvalidInput)
	}
	if len(query) != s.dim {
		return nil, fmt.Errorf("%w: query length (%d) does not match dimension (%d)",
			storage.ErrInvalidInput, len(query), s.dim)
	}

	const querySQL = `
		SELECT id, situation, category, analysis, embedding, embedding_model, created_at
		FROM situations
	`
	rows, err := s.db.QueryContext(ctx, querySQL)
	if err != nil {
		return nil, fmt.Errorf("sqlite: similarity query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	matches := []storage.SimilarityMatch{}
	for rows.Next() {
		sit, err := scanSituation(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan similarity row: %w", err)
		}
		score := storage.CosineSimilarity(query, sit.Embedding)
		if score >= opts.MinScore {
			matches = append(matches, storage.SimilarityMatch{Situation: *sit, Score: score})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: similarity rows error: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Situation.CreatedAt.After(matches[j].Situation.CreatedAt)
	})

	if len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches, nil
}

// Count returns the number of stored situations.
func (s *SituationStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM situations").Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: failed to count situations: %w", err)
	}
	return n, nil
}

// Ping verifies the database connection.
func (s *SituationStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database connection.
func (s *SituationStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSituation scans one situations row. The SELECT column order must be
// id, situation, category, analysis, embedding, embedding_model, created_at.
func scanSituation(row rowScanner) (*storage.Situation, error) {
	var sit storage.Situation
	var category string
	var blob []byte
	if err := row.Scan(&sit.ID, &sit.Text, &category, &sit.Analysis, &blob, &sit.EmbeddingModel, &sit.CreatedAt); err != nil {
		return nil, err
	}
	sit.Category = classify.Category(category)

	var err error
	if sit.Embedding, err = storage.DecodeVector(blob); err != nil {
		return nil, err
	}
	return &sit, nil
}
