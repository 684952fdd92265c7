// Package postgres persists conversation memory and the knowledge base in
// PostgreSQL with pgvector embeddings.
package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/vendia/internal/domain"
)

// Store is the pgvector-backed implementation of domain.VectorStore.
// Query embedding is computed through the injected embedder.
type Store struct {
	pool     *pgxpool.Pool
	embedder domain.Embedder
}

var _ domain.VectorStore = (*Store)(nil)

func New(ctx context.Context, dsn string, maxConns int32, embedder domain.Embedder) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{pool: pool, embedder: embedder}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// vectorLiteral renders an embedding in pgvector text form, e.g. "[0.1,0.2]".
func vectorLiteral(vec []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
