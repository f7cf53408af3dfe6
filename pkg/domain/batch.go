// Package domain provides type-safe primitives for caller-supplied
// identifiers. Parse at trust boundaries (handlers, loaders) so the rest of
// the code only sees values that already hold their invariants.
package domain

import (
	"regexp"
	"strings"

	dErrors "batchtrace/pkg/domain-errors"
)

// BatchCode is a normalized batch identifier: trimmed, upper-cased, non-empty.
// Registry keys and record codes are always of this form.
type BatchCode string

// Mobile is a validated Indian mobile number: ten digits, first in 6-9.
type Mobile string

var mobilePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

// NormalizeBatchCode canonicalizes a raw batch code. Normalization is
// idempotent: Normalize(Normalize(s)) == Normalize(s).
func NormalizeBatchCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ParseBatchCode normalizes and validates a raw batch code.
func ParseBatchCode(raw string) (BatchCode, error) {
	code := NormalizeBatchCode(raw)
	if code == "" {
		return "", dErrors.New(dErrors.CodeMissingField, "batch code cannot be empty")
	}
	return BatchCode(code), nil
}

// ParseMobile validates a mobile number against the national numbering plan.
func ParseMobile(raw string) (Mobile, error) {
	m := strings.TrimSpace(raw)
	if m == "" {
		return "", dErrors.New(dErrors.CodeMissingField, "mobile number cannot be empty")
	}
	if !mobilePattern.MatchString(m) {
		return "", dErrors.New(dErrors.CodeInvalidMobile, "mobile number must be 10 digits starting with 6-9")
	}
	return Mobile(m), nil
}

func (c BatchCode) String() string { return string(c) }
func (m Mobile) String() string    { return string(m) }

func (c BatchCode) IsZero() bool { return c == "" }
func (m Mobile) IsZero() bool    { return m == "" }
