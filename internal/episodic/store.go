package episodic

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
	"mnemo/pkg/errors"
	"mnemo/pkg/logger"
	"go.uber.org/zap"
)

// MemoryType is the fixed metadata tag on every episodic record
const MemoryType = "episodic"

// Embedder produces the vectors stored and searched by the index
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Result is one similarity-search hit. Distance is cosine distance;
// lower means more similar. The relevance cutoff is the caller's policy,
// not the store's.
type Result struct {
	Content  string
	Distance float64
}

// Store is the append-only episodic memory backed by Postgres with a
// pgvector index. Records are raw conversation turns; they are never
// updated or removed.
type Store struct {
	pool     *pgxpool.Pool
	embedder Embedder
	logger   *zap.Logger
}

// NewStore connects to Postgres, registers pgvector types on every
// connection, and runs the schema migration.
func NewStore(ctx context.Context, dsn string, embedder Embedder, embeddingDimensions int) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("episodic store: parse dsn: %w", err)
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("episodic store: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("episodic store: ping: %w", err)
	}

	if err := Migrate(ctx, pool, embeddingDimensions); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{
		pool:     pool,
		embedder: embedder,
		logger:   logger.Get(),
	}, nil
}

// Close releases all connections held by the underlying pool
func (s *Store) Close() {
	s.pool.Close()
}

// Add embeds and appends one conversation record
func (s *Store) Add(ctx context.Context, content string) error {
	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return errors.NewEpisodicWriteFailed(fmt.Errorf("embed record: %w", err))
	}

	const q = `
		INSERT INTO episodic_records (id, content, memory_type, embedding)
		VALUES ($1, $2, $3, $4)`

	_, err = s.pool.Exec(ctx, q,
		uuid.New().String(),
		content,
		MemoryType,
		pgvector.NewVector(embedding),
	)
	if err != nil {
		return errors.NewEpisodicWriteFailed(err)
	}

	s.logger.Debug("Episodic record stored",
		zap.Int("content_length", len(content)),
	)
	return nil
}

// Search returns the k records closest to the query, ordered by ascending
// cosine distance (most similar first).
func (s *Store) Search(ctx context.Context, query string, k int) ([]Result, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, errors.NewEpisodicSearchFailed(fmt.Errorf("embed query: %w", err))
	}

	const q = `
		SELECT content, embedding <=> $1 AS distance
		FROM   episodic_records
		ORDER  BY distance
		LIMIT  $2`

	rows, err := s.pool.Query(ctx, q, pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, errors.NewEpisodicSearchFailed(err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Result, error) {
		var res Result
		if err := row.Scan(&res.Content, &res.Distance); err != nil {
			return Result{}, err
		}
		return res, nil
	})
	if err != nil {
		return nil, errors.NewEpisodicSearchFailed(fmt.Errorf("scan rows: %w", err))
	}

	return results, nil
}
