package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/vendia/internal/domain"
)

// DefaultPersistQueueSize bounds the background write queue.
const DefaultPersistQueueSize = 256

type turnWrite struct {
	sessionID string
	role      domain.Role
	text      string
}

// Persister writes conversation turns to the vector store off the reply
// path. Writes are best-effort: a disabled toggle, non-UUID session id or
// blank text skips the write, a full queue drops it, and store or embedding
// failures are logged and swallowed. Nothing here ever affects the
// user-visible reply.
type Persister struct {
	store    domain.VectorStore
	embedder domain.Embedder
	enabled  bool
	queue    chan turnWrite
}

func NewPersister(store domain.VectorStore, embedder domain.Embedder, enabled bool, queueSize int) *Persister {
	if queueSize <= 0 {
		queueSize = DefaultPersistQueueSize
	}
	return &Persister{
		store:    store,
		embedder: embedder,
		enabled:  enabled && store != nil,
		queue:    make(chan turnWrite, queueSize),
	}
}

// Enqueue schedules one turn for persistence and reports whether it was
// accepted. It never blocks.
func (p *Persister) Enqueue(sessionID string, role domain.Role, text string) bool {
	if !p.enabled {
		return false
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		log.Warn().Str("session_id", sessionID).Msg("chat.Persister.Enqueue: skipping non-UUID session")
		return false
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	select {
	case p.queue <- turnWrite{sessionID: sessionID, role: role, text: trimmed}:
		return true
	default:
		log.Warn().Str("session_id", sessionID).Msg("chat.Persister.Enqueue: queue full, dropping write")
		return false
	}
}

// Run consumes the queue until ctx is cancelled, then drains what is left.
func (p *Persister) Run(ctx context.Context) {
	for {
		select {
		case w := <-p.queue:
			p.write(ctx, w)
		case <-ctx.Done():
			for {
				select {
				case w := <-p.queue:
					p.write(context.Background(), w)
				default:
					return
				}
			}
		}
	}
}

// write embeds and stores a single turn. An embedding failure downgrades to
// a write without a vector; a store failure is only logged.
func (p *Persister) write(ctx context.Context, w turnWrite) {
	var embedding []float32
	if p.embedder != nil {
		vec, err := p.embedder.Embed(ctx, w.text)
		if err != nil {
			log.Warn().Err(err).Str("session_id", w.sessionID).Msg("chat.Persister.write: embedding failed, storing without vector")
		} else {
			embedding = vec
		}
	}

	if err := p.store.WriteMemoryTurn(ctx, w.sessionID, w.role, w.text, embedding); err != nil {
		log.Error().Err(err).Str("session_id", w.sessionID).Str("role", string(w.role)).Msg("chat.Persister.write: store write failed")
	}
}
