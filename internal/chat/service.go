// Package chat implements the guarded conversation pipeline: session
// resolution, safety guards, retrieval-augmented context, summarization,
// structured generation and best-effort memory persistence.
package chat

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/vendia/internal/domain"
	"github.com/gosuda/vendia/internal/guard"
)

// Reply is the outcome of one processed message. Guarded replies carry the
// blocking reason and no metadata; successful replies carry the structured
// agent output.
type Reply struct {
	SessionID string              `json:"sessionId"`
	Reply     string              `json:"reply"`
	Guarded   bool                `json:"guarded,omitempty"`
	Reason    string              `json:"reason,omitempty"`
	Meta      *domain.AgentOutput `json:"meta,omitempty"`
}

// Service runs the message pipeline in its fixed order:
// moderation -> injection -> session -> summarization -> context -> model ->
// drift -> persistence. A guard block short-circuits everything after it,
// including persistence.
type Service struct {
	registry   *Registry
	moderation *guard.ModerationGuard
	summarizer *Summarizer
	assembler  *Assembler
	agent      *Agent
	persister  *Persister
}

func NewService(
	registry *Registry,
	moderation *guard.ModerationGuard,
	summarizer *Summarizer,
	assembler *Assembler,
	agent *Agent,
	persister *Persister,
) *Service {
	return &Service{
		registry:   registry,
		moderation: moderation,
		summarizer: summarizer,
		assembler:  assembler,
		agent:      agent,
		persister:  persister,
	}
}

// Process turns one user message into a reply. sessionID may be empty or
// untrusted; the returned SessionID is always a valid v4 UUID once the
// pipeline reaches session resolution. The only error Process returns is a
// ProviderError from the model collaborator.
func (s *Service) Process(ctx context.Context, message, sessionID string) (*Reply, error) {
	// Moderation runs first and takes precedence over every other guard.
	if res := s.moderation.Check(ctx, message); !res.OK {
		return guarded(sessionID, res), nil
	}

	if res := guard.CheckInjection(message); !res.OK {
		return guarded(sessionID, res), nil
	}

	id, sess := s.registry.Resolve(sessionID)

	input := message
	if summary, ok, err := s.summarizer.SummarizeIfNeeded(ctx, message); err != nil {
		return nil, err
	} else if ok {
		log.Debug().Str("session_id", id.String()).Int("original_len", len(message)).Int("summary_len", len(summary)).Msg("chat.Service.Process: input summarized")
		input = summary
	}

	contextBlock := s.assembler.Assemble(ctx, id.String(), input)

	// The session lock serializes history read through history append, so
	// concurrent requests for the same session cannot interleave turns.
	sess.mu.Lock()
	out, err := s.agent.Generate(ctx, sess, input, nil, contextBlock)
	sess.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if res := guard.CheckDrift(out.Response, message); !res.OK {
		// The generated text is discarded and never persisted.
		return guarded(id.String(), res), nil
	}

	// Fire-and-forget: exactly one user write and one assistant write per
	// successful turn.
	s.persister.Enqueue(id.String(), domain.RoleUser, input)
	s.persister.Enqueue(id.String(), domain.RoleAssistant, out.Response)

	return &Reply{SessionID: id.String(), Reply: out.Response, Meta: out}, nil
}

func guarded(sessionID string, res guard.Result) *Reply {
	return &Reply{
		SessionID: sessionID,
		Reply:     res.Reply,
		Guarded:   true,
		Reason:    string(res.Reason),
	}
}
