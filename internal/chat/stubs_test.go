package chat_test

import (
	"context"
	"sync"

	"github.com/gosuda/vendia/internal/domain"
)

// --- stub generator ---

type generatorCall struct {
	system string
	prompt string
}

type stubGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	respond func(system, prompt string) (string, error)
	calls   int
	history []generatorCall
}

func (g *stubGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	g.history = append(g.history, generatorCall{system: system, prompt: prompt})
	if g.respond != nil {
		return g.respond(system, prompt)
	}
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *stubGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.history) == 0 {
		return ""
	}
	return g.history[len(g.history)-1].prompt
}

// --- stub moderator ---

type stubModerator struct {
	flagged bool
	err     error
	calls   int
}

func (m *stubModerator) Check(context.Context, string) (bool, error) {
	m.calls++
	return m.flagged, m.err
}

// --- stub embedder ---

type stubEmbedder struct {
	vec []float32
	err error
}

func (e *stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vec, nil
}

func (e *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vec
	}
	return out, nil
}

// --- stub vector store ---

type storedTurn struct {
	sessionID string
	role      domain.Role
	text      string
	embedding []float32
}

type stubStore struct {
	mu            sync.Mutex
	memoryHits    []domain.MemoryHit
	knowledgeHits []domain.KnowledgeHit
	searchErr     error
	writeErr      error
	writes        []storedTurn
	memoryCalls   int
}

func (s *stubStore) SearchMemory(_ context.Context, _, _ string, _ int) ([]domain.MemoryHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.memoryCalls++
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.memoryHits, nil
}

func (s *stubStore) SearchKnowledge(context.Context, string, int) ([]domain.KnowledgeHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.knowledgeHits, nil
}

func (s *stubStore) WriteMemoryTurn(_ context.Context, sessionID string, role domain.Role, text string, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	s.writes = append(s.writes, storedTurn{sessionID: sessionID, role: role, text: text, embedding: embedding})
	return nil
}

func (s *stubStore) storedWrites() []storedTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]storedTurn, len(s.writes))
	copy(out, s.writes)
	return out
}
