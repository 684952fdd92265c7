package chat

import (
	"sync"

	"github.com/google/uuid"

	"github.com/gosuda/vendia/internal/domain"
)

// Session holds the in-memory conversation state for one session id.
// The mutex serializes the whole generate-and-append path so two concurrent
// requests for the same session cannot interleave history.
type Session struct {
	ID uuid.UUID

	mu         sync.Mutex
	history    []domain.Turn
	maxHistory int
}

func newSession(id uuid.UUID, maxHistory int) *Session {
	return &Session{ID: id, maxHistory: maxHistory}
}

func (s *Session) appendTurn(role domain.Role, content string) {
	s.history = append(s.history, domain.Turn{Role: role, Content: content})
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		// Drop the oldest turns; the overflow lives on in the vector memory.
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
}

// historySnapshot returns a copy of the current history. Callers must hold mu.
func (s *Session) historySnapshot() []domain.Turn {
	snap := make([]domain.Turn, len(s.history))
	copy(snap, s.history)
	return snap
}
