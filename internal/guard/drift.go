package guard

import (
	"regexp"
	"strings"
)

// domainKeywords is the curated vocabulary of service-related terms. A turn
// with none of these in either the agent output or the user input is
// considered drifted unless an allow-list exception applies.
var domainKeywords = []string{
	"internet", "banda larga", "fibra", "velocidade", "mbps", "plano", "planos", "wifi", "wi-fi",
	"roteador", "instalação", "preço", "promoção", "venda", "proposta", "contratar", "orçamento",
	"streaming", "home office", "jogos", "ping", "latência", "download", "upload",
	"cobertura", "cep", "endereço", "endereco",
}

// Contact-collection signals: a turn carrying an email, phone number, CEP or a
// name disclosure is part of a legitimate closing flow even when off-keyword.
var (
	emailRx = regexp.MustCompile(`(?i)[^\s@]+@[^\s@]+\.[^\s@]{2,}`)
	phoneRx = regexp.MustCompile(`(?:\+?55\s*)?(?:\(?\d{2}\)?\s*)?(?:9?\d{4})[-\s]?\d{4}`)
	cepRx   = regexp.MustCompile(`\b\d{5}-?\d{3}\b`)
)

var nameHints = []string{"meu nome", "nome completo", "me chamo", "sou "}

var greetings = []string{"oi", "olá", "ola", "bom dia", "boa tarde", "boa noite"}

// InDomain reports whether text contains at least one domain keyword.
func InDomain(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range domainKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// CheckDrift validates the agent's generated reply against the sales domain.
// output is the generated text, input the original user message. Greetings and
// contact-collection flows are allow-listed; everything else must carry a
// domain keyword in either text or the turn is blocked with ReasonDrift.
func CheckDrift(output, input string) Result {
	out := strings.ToLower(output)
	in := strings.ToLower(input)

	for _, g := range greetings {
		if strings.HasPrefix(in, g) || strings.HasPrefix(out, g) {
			return Allow()
		}
	}

	if emailRx.MatchString(in) || phoneRx.MatchString(in) || cepRx.MatchString(in) {
		return Allow()
	}
	for _, h := range nameHints {
		if strings.Contains(in, h) {
			return Allow()
		}
	}
	if emailRx.MatchString(out) || phoneRx.MatchString(out) || cepRx.MatchString(out) {
		return Allow()
	}

	if InDomain(output) || InDomain(input) {
		return Allow()
	}
	return Block(ReasonDrift)
}
