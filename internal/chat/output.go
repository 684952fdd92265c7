package chat

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/gosuda/vendia/internal/domain"
)

var (
	fencedRx        = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")
	trailingCommaRx = regexp.MustCompile(`,\s*([}\]])`)
	smartQuotes     = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")
)

// Sanitize strips Markdown code fences and extracts the first balanced
// {...} object from a model reply. Text without an object comes back as-is.
func Sanitize(text string) string {
	candidate := text
	if m := fencedRx.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	}
	if obj, ok := extractObject(candidate); ok {
		return obj
	}
	return candidate
}

// extractObject returns the first balanced top-level JSON object in s.
func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// repair normalizes smart quotes, strips trailing commas and re-extracts the
// object, giving near-JSON model output a second chance at parsing.
func repair(s string) string {
	s = smartQuotes.Replace(s)
	s = trailingCommaRx.ReplaceAllString(s, "$1")
	if obj, ok := extractObject(s); ok {
		return obj
	}
	return s
}

type rawAgentOutput struct {
	Response string   `json:"response"`
	Step     string   `json:"step"`
	Topics   []string `json:"topics"`
}

// validate checks a decoded object against the AgentOutput schema and
// returns the typed result. Failure is a tagged outcome, never an error.
func validate(raw rawAgentOutput) (*domain.AgentOutput, bool) {
	if raw.Response == "" {
		return nil, false
	}

	step := domain.Step(raw.Step)
	if !step.Valid() {
		return nil, false
	}

	topics := make([]domain.Topic, 0, len(raw.Topics))
	for _, t := range raw.Topics {
		topic := domain.Topic(t)
		if !topic.Valid() {
			return nil, false
		}
		topics = append(topics, topic)
	}

	return &domain.AgentOutput{Response: raw.Response, Step: step, Topics: topics}, true
}

func tryParse(s string) (*domain.AgentOutput, bool) {
	var raw rawAgentOutput
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}
	return validate(raw)
}

// ParseAgentOutput turns a raw model reply into a validated AgentOutput.
// It sanitizes, parses, and on failure runs one repair pass. When both fail
// it degrades to the sanitized text verbatim with the fallback step; a parse
// failure is never surfaced to the caller as an error.
func ParseAgentOutput(reply string) (*domain.AgentOutput, bool) {
	sanitized := Sanitize(reply)

	if out, ok := tryParse(sanitized); ok {
		return out, true
	}
	if out, ok := tryParse(repair(sanitized)); ok {
		return out, true
	}

	return &domain.AgentOutput{
		Response: sanitized,
		Step:     domain.StepFallback,
		Topics:   []domain.Topic{},
	}, false
}
