package domain

import (
	"strings"

	dErrors "policyhub/pkg/domain-errors"
)

// NationalID is a checksum-guarded citizen identifier: one letter, a gender digit
// (1 or 2) and eight further digits, e.g. "A123456789".
// Invariant: a NationalID obtained from ParseNationalID has a valid format and checksum.
//
// Usage: construct via ParseNationalID at trust boundaries; RestoreNationalID is reserved
// for values read back from storage, which were validated when first persisted.
type NationalID string

const nationalIDLength = 10

// letterCodes maps each leading letter to its two-digit numeric code.
// The table is not sequential: I, O, W, X, Y and Z were appended after the original assignment.
var letterCodes = map[byte]int{
	'A': 10, 'B': 11, 'C': 12, 'D': 13, 'E': 14, 'F': 15, 'G': 16, 'H': 17,
	'I': 34, 'J': 18, 'K': 19, 'L': 20, 'M': 21, 'N': 22, 'O': 35, 'P': 23,
	'Q': 24, 'R': 25, 'S': 26, 'T': 27, 'U': 28, 'V': 29, 'W': 32, 'X': 30,
	'Y': 31, 'Z': 33,
}

// digitWeights applies to the nine digits following the letter.
var digitWeights = [9]int{8, 7, 6, 5, 4, 3, 2, 1, 1}

// ParseNationalID normalises s to upper case and validates format then checksum.
//
// Errors: returns CodeValidation for both malformed input and checksum failure;
// the message tells the two apart.
func ParseNationalID(s string) (NationalID, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	if !isWellFormedNationalID(normalized) {
		return "", dErrors.New(dErrors.CodeValidation, "invalid national ID format: expected a letter, 1 or 2, then 8 digits")
	}
	if !nationalIDChecksumValid(normalized) {
		return "", dErrors.New(dErrors.CodeValidation, "invalid national ID: checksum mismatch")
	}
	return NationalID(normalized), nil
}

// RestoreNationalID rebuilds a NationalID loaded from storage without re-validation.
func RestoreNationalID(s string) NationalID {
	return NationalID(s)
}

// String returns the raw identifier. Prefer Masked for logs and audit records.
func (n NationalID) String() string {
	return string(n)
}

// Masked hides the middle three digits, e.g. "A123456789" -> "A123***789".
func (n NationalID) Masked() string {
	s := string(n)
	if len(s) != nationalIDLength {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + "***" + s[7:]
}

// IsNil returns true if the national ID is empty.
func (n NationalID) IsNil() bool {
	return n == ""
}

func isWellFormedNationalID(s string) bool {
	if len(s) != nationalIDLength {
		return false
	}
	if _, ok := letterCodes[s[0]]; !ok {
		return false
	}
	if s[1] != '1' && s[1] != '2' {
		return false
	}
	return allDigits(s[2:])
}

// nationalIDChecksumValid expects a well-formed, upper-cased identifier.
func nationalIDChecksumValid(s string) bool {
	code := letterCodes[s[0]]
	sum := code/10 + (code%10)*9
	for i, w := range digitWeights {
		sum += int(s[i+1]-'0') * w
	}
	return sum%10 == 0
}
