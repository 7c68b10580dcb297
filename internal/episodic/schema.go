package episodic

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate ensures the pgvector extension, the episodic records table and
// its ANN index exist. embeddingDimensions must match the embedding model's
// output size; changing it after the first migration requires a manual
// schema change.
func Migrate(ctx context.Context, pool *pgxpool.Pool, embeddingDimensions int) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS episodic_records (
				id          UUID PRIMARY KEY,
				content     TEXT NOT NULL,
				memory_type TEXT NOT NULL DEFAULT 'episodic',
				embedding   vector(%d) NOT NULL,
				created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, embeddingDimensions),
		`CREATE INDEX IF NOT EXISTS episodic_records_embedding_idx
			ON episodic_records USING hnsw (embedding vector_cosine_ops)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("episodic store: migrate: %w", err)
		}
	}

	return nil
}
