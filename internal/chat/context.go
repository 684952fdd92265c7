package chat

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/vendia/internal/domain"
)

const (
	// DefaultContextBudget is the hard character cap of the assembled
	// context block.
	DefaultContextBudget = 2000

	DefaultMemoryK    = 4
	DefaultKnowledgeK = 4
)

// PII scrub patterns. Retrieved chunks may quote earlier turns verbatim, so
// contact data is masked before it re-enters a prompt.
var (
	scrubEmailRx = regexp.MustCompile(`(?i)[^\s@]+@[^\s@]+\.[^\s@]{2,}`)
	scrubPhoneRx = regexp.MustCompile(`(?:\+?55\s*)?(?:\(?\d{2}\)?\s*)?(?:9?\d{4})[-\s]?\d{4}`)
)

const (
	emailPlaceholder = "[email removido]"
	phonePlaceholder = "[telefone removido]"
)

// Assembler builds the retrieval-augmented context block for a turn:
// session memory first, then knowledge-base hits, deduplicated, scrubbed and
// bounded. Assembly is best-effort; it never blocks the conversation.
type Assembler struct {
	store      domain.VectorStore
	memoryK    int
	knowledgeK int
	budget     int
}

func NewAssembler(store domain.VectorStore, memoryK, knowledgeK, budget int) *Assembler {
	if memoryK <= 0 {
		memoryK = DefaultMemoryK
	}
	if knowledgeK <= 0 {
		knowledgeK = DefaultKnowledgeK
	}
	if budget <= 0 {
		budget = DefaultContextBudget
	}
	return &Assembler{store: store, memoryK: memoryK, knowledgeK: knowledgeK, budget: budget}
}

// Assemble retrieves and merges memory and knowledge hits for query.
// Memory is only consulted for valid UUID session ids; any collaborator
// failure yields an empty context.
func (a *Assembler) Assemble(ctx context.Context, sessionID, query string) string {
	if a.store == nil {
		return ""
	}

	var chunks []string

	if _, err := uuid.Parse(sessionID); err == nil {
		hits, memErr := a.store.SearchMemory(ctx, sessionID, query, a.memoryK)
		if memErr != nil {
			log.Warn().Err(memErr).Str("session_id", sessionID).Msg("chat.Assembler.Assemble: memory search failed")
		}
		for _, h := range hits {
			chunks = append(chunks, h.Text)
		}
	}

	kbHits, kbErr := a.store.SearchKnowledge(ctx, query, a.knowledgeK)
	if kbErr != nil {
		log.Warn().Err(kbErr).Msg("chat.Assembler.Assemble: knowledge search failed")
	}
	for _, h := range kbHits {
		chunks = append(chunks, h.Text)
	}

	return a.render(chunks)
}

// render dedupes, scrubs and concatenates chunks under the character budget.
func (a *Assembler) render(chunks []string) string {
	seen := make(map[string]struct{}, len(chunks))

	var b strings.Builder
	for _, c := range chunks {
		trimmed := strings.TrimSpace(c)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}

		line := "- " + Scrub(trimmed)
		if b.Len() > 0 {
			line = "\n" + line
		}
		if b.Len()+len(line) > a.budget {
			break
		}
		b.WriteString(line)
	}

	out := b.String()
	if len(out) > a.budget {
		out = out[:a.budget]
	}
	return out
}

// Scrub masks email and phone substrings with placeholders.
func Scrub(text string) string {
	text = scrubEmailRx.ReplaceAllString(text, emailPlaceholder)
	text = scrubPhoneRx.ReplaceAllString(text, phonePlaceholder)
	return text
}
