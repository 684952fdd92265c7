package postgres

import (
	"context"
	"fmt"

	"github.com/gosuda/vendia/internal/domain"
)

// AddDocument inserts a knowledge-base document with its embedding.
func (s *Store) AddDocument(ctx context.Context, content string, metadata map[string]any) error {
	if content == "" {
		return fmt.Errorf("postgres.Store.AddDocument: %w", domain.ErrEmptyContent)
	}

	vec, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("postgres.Store.AddDocument: embed: %w", err)
	}

	if metadata == nil {
		metadata = map[string]any{}
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (content, metadata, embedding) VALUES ($1, $2, $3::vector)`,
		content, metadata, vectorLiteral(vec),
	)
	if err != nil {
		return fmt.Errorf("postgres.Store.AddDocument: %w", err)
	}

	return nil
}

// SearchKnowledge returns the k documents most similar to query, unscoped by
// session.
func (s *Store) SearchKnowledge(ctx context.Context, query string, k int) ([]domain.KnowledgeHit, error) {
	if query == "" {
		return nil, nil
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres.Store.SearchKnowledge: embed query: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT content, 1 - (embedding <=> $1::vector) AS similarity
		 FROM documents
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1::vector
		 LIMIT $2`,
		vectorLiteral(vec), k,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres.Store.SearchKnowledge: %w", err)
	}
	defer rows.Close()

	var hits []domain.KnowledgeHit
	for rows.Next() {
		var h domain.KnowledgeHit
		if err := rows.Scan(&h.Text, &h.Score); err != nil {
			return nil, fmt.Errorf("postgres.Store.SearchKnowledge: scan: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres.Store.SearchKnowledge: %w", err)
	}

	return hits, nil
}
