// Package auth implements the static shared-secret check on the x-api-key header.
package auth

import "crypto/subtle"

// HeaderName carries the presented key.
const HeaderName = "x-api-key"

// UnauthorizedMessage is the "error" value of a rejected request.
const UnauthorizedMessage = "Unauthorized: Invalid or missing API key"

// Checker compares presented keys against one expected secret.
type Checker struct {
	expected []byte
}

// NewChecker creates a Checker for the given secret.
func NewChecker(expected string) *Checker {
	return &Checker{expected: []byte(expected)}
}

// Check reports whether presented equals the expected secret.
// An empty key never matches, even when the secret itself is empty.
func (c *Checker) Check(presented string) bool {
	if presented == "" || len(c.expected) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), c.expected) == 1
}
