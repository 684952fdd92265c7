package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/gosuda/vendia/internal/chat"
	"github.com/gosuda/vendia/internal/domain"
)

func TestAssemble(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New().String()

	t.Run("merges memory then knowledge", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{
			memoryHits:    []domain.MemoryHit{{Text: "cliente pediu plano de 300 Mega"}},
			knowledgeHits: []domain.KnowledgeHit{{Text: "plano Turbo 300 custa R$ 99,90"}},
		}
		a := chat.NewAssembler(store, 4, 4, 2000)

		got := a.Assemble(context.Background(), sessionID, "qual o preço?")
		assert.Equal(t, "- cliente pediu plano de 300 Mega\n- plano Turbo 300 custa R$ 99,90", got)
	})

	t.Run("skips memory for non-uuid session", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{
			memoryHits:    []domain.MemoryHit{{Text: "memória antiga"}},
			knowledgeHits: []domain.KnowledgeHit{{Text: "base de conhecimento"}},
		}
		a := chat.NewAssembler(store, 4, 4, 2000)

		got := a.Assemble(context.Background(), "sessao-invalida", "oi")
		assert.Equal(t, "- base de conhecimento", got)
		assert.Zero(t, store.memoryCalls)
	})

	t.Run("dedupes repeated chunks", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{
			memoryHits:    []domain.MemoryHit{{Text: "plano Turbo 300"}, {Text: "  plano Turbo 300  "}},
			knowledgeHits: []domain.KnowledgeHit{{Text: "plano Turbo 300"}},
		}
		a := chat.NewAssembler(store, 4, 4, 2000)

		got := a.Assemble(context.Background(), sessionID, "planos")
		assert.Equal(t, "- plano Turbo 300", got)
	})

	t.Run("scrubs contact data from chunks", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{
			memoryHits: []domain.MemoryHit{{Text: "contato: joao@example.com e (11) 99888-7766"}},
		}
		a := chat.NewAssembler(store, 4, 4, 2000)

		got := a.Assemble(context.Background(), sessionID, "contato")
		assert.NotContains(t, got, "joao@example.com")
		assert.NotContains(t, got, "99888-7766")
		assert.Contains(t, got, "[email removido]")
		assert.Contains(t, got, "[telefone removido]")
	})

	t.Run("respects the character budget", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{
			memoryHits: []domain.MemoryHit{
				{Text: strings.Repeat("a", 30)},
				{Text: strings.Repeat("b", 30)},
				{Text: strings.Repeat("c", 30)},
			},
		}
		a := chat.NewAssembler(store, 4, 4, 70)

		got := a.Assemble(context.Background(), sessionID, "x")
		assert.LessOrEqual(t, len(got), 70)
		assert.Contains(t, got, "aaa")
		assert.Contains(t, got, "bbb")
		assert.NotContains(t, got, "ccc")
	})

	t.Run("store failure yields empty context", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{searchErr: errors.New("down")}
		a := chat.NewAssembler(store, 4, 4, 2000)

		assert.Empty(t, a.Assemble(context.Background(), sessionID, "oi"))
	})

	t.Run("nil store yields empty context", func(t *testing.T) {
		t.Parallel()

		a := chat.NewAssembler(nil, 4, 4, 2000)
		assert.Empty(t, a.Assemble(context.Background(), sessionID, "oi"))
	})
}

func TestScrub(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fale com [email removido] hoje", chat.Scrub("fale com ana@turbonet.com.br hoje"))
	assert.Equal(t, "ligue [telefone removido]", chat.Scrub("ligue (11) 98765-4321"))
	assert.Equal(t, "sem contato aqui", chat.Scrub("sem contato aqui"))
}
