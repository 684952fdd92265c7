package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultIdleTTL is how long a session may sit untouched before the
	// sweeper evicts it.
	DefaultIdleTTL = 30 * time.Minute

	// DefaultMaxSessions caps the registry; the least-recently-touched
	// session is evicted when a new one would exceed it.
	DefaultMaxSessions = 10000

	sweepInterval = time.Minute
)

type sessionEntry struct {
	sess     *Session
	lastSeen time.Time
}

// Registry maps session ids to conversation state. Lookups and
// insert-if-absent are safe for concurrent use; entries for unrelated
// sessions are never disturbed by each other.
type Registry struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]*sessionEntry
	idleTTL     time.Duration
	maxSessions int
	maxHistory  int
}

func NewRegistry(idleTTL time.Duration, maxSessions, maxHistory int) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}

	return &Registry{
		entries:     make(map[uuid.UUID]*sessionEntry),
		idleTTL:     idleTTL,
		maxSessions: maxSessions,
		maxHistory:  maxHistory,
	}
}

// Resolve maps a candidate session id to its state. A candidate that is a
// valid v4 UUID with live state is reused; anything else (malformed, wrong
// version, or unknown to this process) is untrusted and gets a freshly minted
// id with fresh state.
func (r *Registry) Resolve(candidate string) (uuid.UUID, *Session) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, err := uuid.Parse(candidate); err == nil && id.Version() == 4 {
		if e, ok := r.entries[id]; ok {
			e.lastSeen = now
			return id, e.sess
		}
	}

	id := uuid.New()
	sess := newSession(id, r.maxHistory)
	r.entries[id] = &sessionEntry{sess: sess, lastSeen: now}

	if len(r.entries) > r.maxSessions {
		r.evictOldestLocked()
	}

	return id, sess
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Run sweeps idle sessions until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.sweep(time.Now()); n > 0 {
				log.Debug().Int("evicted", n).Msg("chat.Registry.Run: swept idle sessions")
			}
		}
	}
}

// sweep evicts every session idle past the TTL and returns how many went.
func (r *Registry) sweep(now time.Time) int {
	cutoff := now.Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			evicted++
		}
	}
	return evicted
}

// evictOldestLocked removes the least-recently-touched entry. Callers hold mu.
func (r *Registry) evictOldestLocked() {
	var (
		oldestID uuid.UUID
		oldest   time.Time
		found    bool
	)
	for id, e := range r.entries {
		if !found || e.lastSeen.Before(oldest) {
			oldestID, oldest, found = id, e.lastSeen, true
		}
	}
	if found {
		delete(r.entries, oldestID)
		log.Warn().Str("session_id", oldestID.String()).Msg("chat.Registry: session cap reached, evicted oldest")
	}
}
