// Package secretscan applies heuristics to spot secret material in
// environment variables. It backs `qwik env check`, which refuses
// builds that would inline a credential into client artifacts through a
// PUBLIC_ variable.
//
// The checks are heuristics: they catch the common accidents (a
// password under a public name, a pasted private key, a signed JWT, a
// generated API key) and accept that contrived values can slip past.
package secretscan

import (
	"math"
	"regexp"
	"strings"
)

// Reason reports which heuristic matched.
type Reason string

const (
	// NameKeyword means the variable name itself suggests a secret.
	NameKeyword Reason = "name suggests a secret"

	// PEMBlock means the value contains a PEM-encoded block.
	PEMBlock Reason = "value contains a PEM block"

	// JWT means the value is shaped like a JSON Web Token.
	JWT Reason = "value looks like a JWT"

	// HighEntropy means the value is a long, dense token of the kind
	// key generators produce.
	HighEntropy Reason = "value looks like a generated key"
)

// keywords are matched against the underscore-separated segments of a
// variable name, so MY_API_KEY matches on KEY but MONKEY_COUNT does
// not.
var keywords = map[string]bool{
	"SECRET":      true,
	"TOKEN":       true,
	"KEY":         true,
	"APIKEY":      true,
	"PASSWORD":    true,
	"PASSWD":      true,
	"PRIVATE":     true,
	"CREDENTIAL":  true,
	"CREDENTIALS": true,
}

var (
	jwtRe  = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*$`)
	hexRe  = regexp.MustCompile(`^[0-9a-fA-F]+$`)
	uuidRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	// tokenRe matches single dense tokens: base64, base64url and hex,
	// with optional padding. URLs and prose fall outside the class.
	tokenRe = regexp.MustCompile(`^[A-Za-z0-9+/_-]+={0,2}$`)
)

// SecretName reports whether the variable name suggests its value is a
// secret.
func SecretName(name string) bool {
	for _, seg := range strings.Split(strings.ToUpper(name), "_") {
		if keywords[seg] {
			return true
		}
	}
	return false
}

// SecretValue reports whether the value itself looks like secret
// material, regardless of what the variable is called.
func SecretValue(value string) (Reason, bool) {
	if strings.Contains(value, "-----BEGIN ") {
		return PEMBlock, true
	}
	if jwtRe.MatchString(value) {
		return JWT, true
	}
	if looksGenerated(value) {
		return HighEntropy, true
	}
	return "", false
}

// Check reports whether the name/value pair looks like a secret. A
// keyword in the name only counts when the variable has a value.
func Check(name, value string) (Reason, bool) {
	if value != "" && SecretName(name) {
		return NameKeyword, true
	}
	return SecretValue(value)
}

// looksGenerated reports whether value is a long single token with the
// character density of generator output. UUIDs are excluded: they are
// routinely used as public identifiers.
func looksGenerated(value string) bool {
	if len(value) < 32 || !tokenRe.MatchString(value) {
		return false
	}
	if uuidRe.MatchString(value) {
		return false
	}

	// Hex keys cap out at 4 bits per byte, so they get a lower bar
	// than base64 material.
	threshold := 4.2
	if hexRe.MatchString(value) {
		threshold = 3.4
	}
	return entropy(value) >= threshold
}

// entropy reports the Shannon entropy of s in bits per byte.
func entropy(s string) float64 {
	if s == "" {
		return 0
	}
	var freq [256]int
	for i := 0; i < len(s); i++ {
		freq[s[i]]++
	}
	total := float64(len(s))
	e := 0.0
	for _, n := range freq {
		if n == 0 {
			continue
		}
		p := float64(n) / total
		e -= p * math.Log2(p)
	}
	return e
}
