package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gosuda/vendia/internal/domain"
)

// WriteMemoryTurn appends one conversation turn to chat_memory. Non-UUID
// session ids and blank content are rejected; a nil embedding stores the
// turn without a vector (it remains readable, just not searchable).
func (s *Store) WriteMemoryTurn(ctx context.Context, sessionID string, role domain.Role, text string, embedding []float32) error {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return fmt.Errorf("postgres.Store.WriteMemoryTurn: %w", domain.ErrInvalidID)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("postgres.Store.WriteMemoryTurn: %w", domain.ErrEmptyContent)
	}

	if embedding == nil {
		_, err = s.pool.Exec(ctx,
			`INSERT INTO chat_memory (conversation_id, role, content) VALUES ($1, $2, $3)`,
			id, string(role), trimmed,
		)
	} else {
		_, err = s.pool.Exec(ctx,
			`INSERT INTO chat_memory (conversation_id, role, content, embedding) VALUES ($1, $2, $3, $4::vector)`,
			id, string(role), trimmed, vectorLiteral(embedding),
		)
	}
	if err != nil {
		return fmt.Errorf("postgres.Store.WriteMemoryTurn: %w", err)
	}

	return nil
}

// SearchMemory returns the k most similar stored turns for a session.
// Non-UUID session ids yield no hits rather than an error.
func (s *Store) SearchMemory(ctx context.Context, sessionID, query string, k int) ([]domain.MemoryHit, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, nil
	}
	if query == "" {
		return nil, nil
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres.Store.SearchMemory: embed query: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT content, role, 1 - (embedding <=> $2::vector) AS similarity
		 FROM chat_memory
		 WHERE conversation_id = $1 AND embedding IS NOT NULL
		 ORDER BY embedding <=> $2::vector
		 LIMIT $3`,
		id, vectorLiteral(vec), k,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres.Store.SearchMemory: %w", err)
	}
	defer rows.Close()

	var hits []domain.MemoryHit
	for rows.Next() {
		var (
			h    domain.MemoryHit
			role string
		)
		if err := rows.Scan(&h.Text, &role, &h.Score); err != nil {
			return nil, fmt.Errorf("postgres.Store.SearchMemory: scan: %w", err)
		}
		h.Role = domain.Role(role)
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres.Store.SearchMemory: %w", err)
	}

	return hits, nil
}
