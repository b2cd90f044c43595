// Package postgres provides a PostgreSQL implementation of the situation store.
package postgres

// Schema contains the SQL statements to create the situations table.
// All statements use IF NOT EXISTS so applying the schema is idempotent.
// The embedding is stored twice: a BYTEA column that always works, and a
// pgvector column (added by MigrationPgvector) used for similarity queries.
const Schema = `
CREATE TABLE IF NOT EXISTS situations (
    id TEXT PRIMARY KEY,
    situation TEXT NOT NULL,
    category TEXT NOT NULL,
    analysis TEXT NOT NULL,

    -- Embedding stored as little-endian float32 bytes; dimension and model
    -- recorded so index compatibility can be checked.
    embedding BYTEA NOT NULL,
    dimension INTEGER NOT NULL,
    embedding_model TEXT NOT NULL,

    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_situations_category ON situations(category);
CREATE INDEX IF NOT EXISTS idx_situations_created_at ON situations(created_at DESC);
`

// MigrationPgvector adds the vector column and cosine index. Applied only
// when the pgvector extension is available. The vector dimension is
// substituted by the store at startup (fmt.Sprintf with the configured dim).
const MigrationPgvector = `
ALTER TABLE situations ADD COLUMN IF NOT EXISTS embedding_vec vector(%d);

CREATE INDEX IF NOT EXISTS idx_situations_vec_cosine
    ON situations USING ivfflat (embedding_vec vector_cosine_ops)
    WITH (lists = 100);
`

// similarityQuery retrieves the closest situations to $1 by cosine distance.
// Cosine similarity is 1 minus pgvector's cosine distance; $2 is the minimum
// score and $3 the result limit. Equal distances order most-recent-first.
const similarityQuery = `
		SELECT id, situation, category, analysis, embedding, embedding_model, created_at,
		       1 - (embedding_vec <=> $1::vector) AS score
		FROM situations
		WHERE embedding_vec IS NOT NULL
		  AND 1 - (embedding_vec <=> $1::vector) >= $2
		ORDER BY embedding_vec <=> $1::vector ASC, created_at DESC
		LIMIT $3
	`
