// Package redis keeps session conversation memory in a RediSearch HNSW
// vector index. It is an alternative memory backend to postgres; it carries
// no knowledge base.
package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gosuda/vendia/internal/domain"
)

const (
	DefaultIndex  = "idx:chat:embeddings"
	DefaultPrefix = "vec:chat:"
	DefaultDim    = 1536
)

// VectorStore implements domain.VectorStore on Redis. SearchKnowledge always
// returns no hits: only session memory lives here.
type VectorStore struct {
	client   *redis.Client
	embedder domain.Embedder
	index    string
	prefix   string
	dim      int
}

var _ domain.VectorStore = (*VectorStore)(nil)

func New(ctx context.Context, addr, password string, db int, embedder domain.Embedder) (*VectorStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &VectorStore{
		client:   client,
		embedder: embedder,
		index:    DefaultIndex,
		prefix:   DefaultPrefix,
		dim:      DefaultDim,
	}, nil
}

func (v *VectorStore) Close() error {
	if err := v.client.Close(); err != nil {
		return fmt.Errorf("redis.VectorStore.Close: %w", err)
	}
	return nil
}

// EnsureIndex creates the HNSW index if it does not exist yet.
func (v *VectorStore) EnsureIndex(ctx context.Context) error {
	err := v.client.FTCreate(ctx, v.index,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []any{v.prefix},
		},
		&redis.FieldSchema{FieldName: "text", FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: "sessionId", FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{
			FieldName: "vector",
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				HNSWOptions: &redis.FTHNSWOptions{
					Type:           "FLOAT32",
					Dim:            v.dim,
					DistanceMetric: "COSINE",
				},
			},
		},
	).Err()
	if err != nil && !strings.Contains(err.Error(), "exists") {
		return fmt.Errorf("redis.VectorStore.EnsureIndex: %w", err)
	}
	return nil
}

// WriteMemoryTurn stores one turn under the session tag. When no embedding
// is supplied the store computes one itself; without a vector the turn would
// be invisible to KNN search.
func (v *VectorStore) WriteMemoryTurn(ctx context.Context, sessionID string, role domain.Role, text string, embedding []float32) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("redis.VectorStore.WriteMemoryTurn: %w", domain.ErrEmptyContent)
	}

	if embedding == nil {
		vec, err := v.embedder.Embed(ctx, trimmed)
		if err != nil {
			return fmt.Errorf("redis.VectorStore.WriteMemoryTurn: embed: %w", err)
		}
		embedding = vec
	}

	key := fmt.Sprintf("%s%d", v.prefix, time.Now().UnixNano())
	err := v.client.HSet(ctx, key, map[string]any{
		"text":      string(role) + ": " + trimmed,
		"sessionId": sessionID,
		"vector":    float32Blob(embedding),
	}).Err()
	if err != nil {
		return fmt.Errorf("redis.VectorStore.WriteMemoryTurn: %w", err)
	}

	return nil
}

// SearchMemory runs a KNN query filtered to the session tag.
func (v *VectorStore) SearchMemory(ctx context.Context, sessionID, query string, k int) ([]domain.MemoryHit, error) {
	if query == "" {
		return nil, nil
	}

	vec, err := v.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("redis.VectorStore.SearchMemory: embed query: %w", err)
	}

	// Hyphens are separators inside TAG queries and must be escaped.
	tag := strings.ReplaceAll(sessionID, "-", `\-`)
	q := fmt.Sprintf("@sessionId:{%s}=>[KNN %d @vector $vec AS score]", tag, k)

	res, err := v.client.FTSearchWithArgs(ctx, v.index, q, &redis.FTSearchOptions{
		Params:         map[string]any{"vec": float32Blob(vec)},
		SortBy:         []redis.FTSearchSortBy{{FieldName: "score", Asc: true}},
		Return:         []redis.FTSearchReturn{{FieldName: "text"}, {FieldName: "score"}},
		DialectVersion: 2,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("redis.VectorStore.SearchMemory: %w", err)
	}

	hits := make([]domain.MemoryHit, 0, len(res.Docs))
	for _, doc := range res.Docs {
		text, ok := doc.Fields["text"]
		if !ok {
			continue
		}
		hits = append(hits, domain.MemoryHit{Text: text})
	}
	return hits, nil
}

// SearchKnowledge is a no-op: the Redis backend holds session memory only.
func (v *VectorStore) SearchKnowledge(_ context.Context, _ string, _ int) ([]domain.KnowledgeHit, error) {
	return nil, nil
}

// float32Blob encodes a vector as little-endian FLOAT32 bytes for RediSearch.
func float32Blob(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
