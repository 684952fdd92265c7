package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosuda/vendia/internal/domain"
)

// Agent binds the sales persona to the model collaborator. It builds the
// turn prompt, invokes the model once, and coerces the reply into an
// AgentOutput.
type Agent struct {
	generator domain.Generator
}

func NewAgent(generator domain.Generator) *Agent {
	return &Agent{generator: generator}
}

// Generate runs one turn. externalHistory, when non-empty, takes precedence
// over the session's own history in the prompt. The caller must hold the
// session lock; on return the user input and the agent reply have been
// appended to the session history (the sanitized raw text on the fallback
// path).
//
// A model failure is wrapped as a ProviderError and is fatal to the request;
// the session history is left untouched in that case.
func (a *Agent) Generate(ctx context.Context, sess *Session, input string, externalHistory []domain.Turn, contextBlock string) (*domain.AgentOutput, error) {
	history := externalHistory
	if len(history) == 0 {
		history = sess.historySnapshot()
	}

	prompt := buildTurnPrompt(history, contextBlock, input)

	reply, err := a.generator.Generate(ctx, systemInstruction(), prompt)
	if err != nil {
		return nil, fmt.Errorf("chat.Agent.Generate: %w", &domain.ProviderError{Provider: "model", Err: err})
	}

	out, _ := ParseAgentOutput(reply)

	sess.appendTurn(domain.RoleUser, input)
	sess.appendTurn(domain.RoleAssistant, out.Response)

	return out, nil
}

// buildTurnPrompt renders history, retrieved context and the current input
// into the user-side prompt for one model call.
func buildTurnPrompt(history []domain.Turn, contextBlock, input string) string {
	var b strings.Builder

	b.WriteString("Histórico:\n")
	for _, t := range history {
		b.WriteString(string(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteByte('\n')
	}

	b.WriteString("\nContexto relevante (recuperado por similaridade):\n")
	if contextBlock == "" {
		contextBlock = " "
	}
	b.WriteString(contextBlock)

	b.WriteString("\n\nCliente: ")
	b.WriteString(input)

	return b.String()
}
