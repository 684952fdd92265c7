// Package guard implements the safety checks that run around a chat turn:
// moderation and prompt-injection before the model call, domain-drift after.
// A guard never returns an error; it either allows the turn or blocks it with
// a fixed safe reply.
package guard

// Reason identifies which guard blocked a turn.
type Reason string

const (
	ReasonModeration Reason = "moderation_flag"
	ReasonInjection  Reason = "prompt_injection"
	ReasonDrift      Reason = "drifted_output"
)

// SafeReply is the canned response returned for every blocked turn.
const SafeReply = "Posso ajudar apenas com informações sobre nossos planos de internet."

// Result is the tagged outcome of a guard check.
type Result struct {
	OK     bool
	Reason Reason
	Reply  string
}

// Allow is the passing result.
func Allow() Result {
	return Result{OK: true}
}

// Block returns a blocking result with the fixed safe reply.
func Block(reason Reason) Result {
	return Result{OK: false, Reason: reason, Reply: SafeReply}
}
