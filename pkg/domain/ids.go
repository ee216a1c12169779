// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"fmt"
	"strings"

	dErrors "policyhub/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing PolicyID where PolicyHolderID is expected.
type (
	PolicyHolderID string
	PolicyID       string
)

const (
	policyHolderIDPrefix = "PH"
	policyIDPrefix       = "PO"
	sequenceDigits       = 10

	// MaxSequence is the largest sequence number representable in a prefixed identifier.
	MaxSequence int64 = 9_999_999_999
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParsePolicyHolderID(s string) (PolicyHolderID, error) {
	v, err := parsePrefixed(s, policyHolderIDPrefix, "policy holder ID")
	return PolicyHolderID(v), err
}

func ParsePolicyID(s string) (PolicyID, error) {
	v, err := parsePrefixed(s, policyIDPrefix, "policy ID")
	return PolicyID(v), err
}

// PolicyHolderIDFromSequence formats a sequence number as PH + 10 digits.
func PolicyHolderIDFromSequence(seq int64) (PolicyHolderID, error) {
	v, err := formatPrefixed(policyHolderIDPrefix, seq)
	return PolicyHolderID(v), err
}

// PolicyIDFromSequence formats a sequence number as PO + 10 digits.
func PolicyIDFromSequence(seq int64) (PolicyID, error) {
	v, err := formatPrefixed(policyIDPrefix, seq)
	return PolicyID(v), err
}

// String methods - for logging and debugging.

func (id PolicyHolderID) String() string { return string(id) }
func (id PolicyID) String() string       { return string(id) }

// IsNil checks - used for service-layer validation.

func (id PolicyHolderID) IsNil() bool { return id == "" }
func (id PolicyID) IsNil() bool       { return id == "" }

// parsePrefixed is the shared validation logic: exact prefix followed by
// exactly ten ASCII digits. Input is not case-folded.
func parsePrefixed(s, prefix, label string) (string, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, label+" cannot be empty")
	}
	if len(s) != len(prefix)+sequenceDigits || !strings.HasPrefix(s, prefix) {
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid %s format: expected %s followed by %d digits", label, prefix, sequenceDigits)
	}
	if !allDigits(s[len(prefix):]) {
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid %s format: expected %s followed by %d digits", label, prefix, sequenceDigits)
	}
	return s, nil
}

func formatPrefixed(prefix string, seq int64) (string, error) {
	if seq < 0 || seq > MaxSequence {
		return "", dErrors.Newf(dErrors.CodeInvariantViolation, "sequence %d out of range for %s identifiers", seq, prefix)
	}
	return fmt.Sprintf("%s%0*d", prefix, sequenceDigits, seq), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
