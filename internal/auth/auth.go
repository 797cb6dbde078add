// Package auth decides whether a report request comes from a privileged
// caller. Authentication failure never rejects a request; it only degrades
// the caller to anonymous treatment.
package auth

import "strings"

// minTokenLength filters out obviously invalid tokens at load time.
const minTokenLength = 2

// TokenSet is the allow-set of opaque bearer tokens loaded at startup.
type TokenSet struct {
	tokens map[string]struct{}
}

// NewTokenSet builds a TokenSet, discarding tokens shorter than two
// characters as invalid.
func NewTokenSet(tokens []string) *TokenSet {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if len(token) < minTokenLength {
			continue
		}
		set[token] = struct{}{}
	}
	return &TokenSet{tokens: set}
}

// Size returns the number of valid tokens loaded.
func (t *TokenSet) Size() int {
	return len(t.tokens)
}

// IsAuthenticated checks the Authorization header value against the
// allow-set. The last whitespace-delimited part of the header is compared,
// so both "Bearer <token>" and a bare "<token>" work. A missing header, an
// empty allow-set or no match all yield false, never an error.
func (t *TokenSet) IsAuthenticated(headerValue string) bool {
	if len(t.tokens) == 0 {
		return false
	}

	parts := strings.Fields(headerValue)
	if len(parts) == 0 {
		return false
	}

	_, ok := t.tokens[parts[len(parts)-1]]
	return ok
}
