package guard

import "regexp"

// injectionPatterns are the fixed case-insensitive rules that mark a message
// as a prompt-injection attempt: instruction overrides, jailbreak requests,
// system-prompt disclosure, guardrail bypasses.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore (all|the) (previous|prior) (instructions|rules)`),
	regexp.MustCompile(`(?i)disregard (the )?(above|earlier) (instructions|rules)`),
	regexp.MustCompile(`(?i)you are (now|no longer) bound`),
	regexp.MustCompile(`(?i)jailbreak`),
	regexp.MustCompile(`(?i)\bDAN\b`),
	regexp.MustCompile(`(?i)act as`),
	regexp.MustCompile(`(?i)system prompt`),
	regexp.MustCompile(`(?i)reveal (the )?(system|hidden) (prompt|instructions)`),
	regexp.MustCompile(`(?i)developer mode`),
	regexp.MustCompile(`(?i)bypass (safety|guardrails|restrictions)`),
}

// DetectInjection reports whether message matches any injection rule.
func DetectInjection(message string) bool {
	for _, rx := range injectionPatterns {
		if rx.MatchString(message) {
			return true
		}
	}
	return false
}

// CheckInjection blocks messages that match an injection rule.
func CheckInjection(message string) Result {
	if DetectInjection(message) {
		return Block(ReasonInjection)
	}
	return Allow()
}
