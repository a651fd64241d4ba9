// Package sanitize strips executable markup from user-supplied text before
// it reaches the record store. It is the local stand-in for the external
// sanitizer collaborator; the core only sees the types.Sanitizer interface.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Compile-time interface check.
var _ types.Sanitizer = (*Sanitizer)(nil)

// Sanitizer applies the bluemonday strict policy: every HTML element is
// removed, plain text passes through. Sanitize is idempotent.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New returns a strict-policy sanitizer.
func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize strips markup and surrounding whitespace from raw.
func (s *Sanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
