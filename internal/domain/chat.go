package domain

import "context"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in a session's conversation history.
// Ordering is by append time; turns are owned by their session and never shared.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Step string

const (
	StepGreeting Step = "greeting"
	StepNeeds    Step = "needs"
	StepOffer    Step = "offer"
	StepClosing  Step = "closing"
	StepFallback Step = "fallback"
)

// Valid reports whether s is one of the fixed sales-funnel steps.
func (s Step) Valid() bool {
	switch s {
	case StepGreeting, StepNeeds, StepOffer, StepClosing, StepFallback:
		return true
	default:
		return false
	}
}

type Topic string

const (
	TopicSpeed        Topic = "speed"
	TopicUsage        Topic = "usage"
	TopicBudget       Topic = "budget"
	TopicProvider     Topic = "provider"
	TopicWifi         Topic = "wifi"
	TopicInstallation Topic = "installation"
	TopicPromotion    Topic = "promotion"
)

// Valid reports whether t is one of the fixed conversation topics.
func (t Topic) Valid() bool {
	switch t {
	case TopicSpeed, TopicUsage, TopicBudget, TopicProvider, TopicWifi, TopicInstallation, TopicPromotion:
		return true
	default:
		return false
	}
}

// AgentOutput is the structured result of one model call.
// Response is always non-empty; a reply that failed schema validation is
// carried with StepFallback and no topics, never as an error.
type AgentOutput struct {
	Response string  `json:"response"`
	Step     Step    `json:"step"`
	Topics   []Topic `json:"topics"`
}

// MemoryHit is one session-scoped retrieval result.
type MemoryHit struct {
	Text  string
	Role  Role
	Score float64
}

// KnowledgeHit is one knowledge-base retrieval result.
type KnowledgeHit struct {
	Text  string
	Score float64
}

// Generator is the model collaborator: prompt in, raw text out.
// Failures are the only request-fatal errors in the pipeline.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Moderator classifies text as flagged or not. An unconfigured or failing
// moderator must be treated by callers according to their fail-open policy.
type Moderator interface {
	Check(ctx context.Context, text string) (flagged bool, err error)
}

// Embedder turns text into vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore is the retrieval/persistence collaborator for conversation
// memory and the knowledge base. Memory operations are scoped to a session;
// knowledge search is global.
type VectorStore interface {
	SearchMemory(ctx context.Context, sessionID, query string, k int) ([]MemoryHit, error)
	SearchKnowledge(ctx context.Context, query string, k int) ([]KnowledgeHit, error)
	WriteMemoryTurn(ctx context.Context, sessionID string, role Role, text string, embedding []float32) error
}
