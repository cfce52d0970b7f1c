// Package validate implements the username acceptance rules shared by the
// CLI checker, the HTTP service and the TUI.
package validate

import (
	"strings"

	"golang.org/x/text/cases"
)

// ViolationCode identifies a single rule a username failed.
type ViolationCode string

const (
	ViolationTooShort     ViolationCode = "too_short"
	ViolationTooLong      ViolationCode = "too_long"
	ViolationBadCharacter ViolationCode = "bad_character"
	ViolationMissingDigit ViolationCode = "missing_digit"
	ViolationReserved     ViolationCode = "reserved"
)

// Violation carries a rule code plus a human-readable reason.
type Violation struct {
	Code   ViolationCode `json:"code"`
	Reason string        `json:"reason"`
}

// Result is the outcome of checking one username against a policy.
type Result struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
}

// Policy describes the acceptance rules. The zero value is not usable;
// start from DefaultPolicy.
type Policy struct {
	MinLength    int
	MaxLength    int
	RequireDigit bool
	// Reserved usernames are rejected after case folding. Empty by default.
	Reserved []string
}

const (
	defaultMinLength = 5
	defaultMaxLength = 10
)

// DefaultPolicy returns the stock ruleset: 5-10 characters, ASCII letters
// and digits only, at least one digit, no reserved names.
func DefaultPolicy() Policy {
	return Policy{
		MinLength:    defaultMinLength,
		MaxLength:    defaultMaxLength,
		RequireDigit: true,
	}
}

var foldCaser = cases.Fold()

// Normalize strips surrounding whitespace. Verdicts are case-preserving, so
// this is the only canonicalization applied to input.
func Normalize(username string) string {
	return strings.TrimSpace(username)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Check evaluates username against the policy. It is total: every input,
// including the empty string, yields a verdict. Disqualification is
// monotonic: the bad-character flag is write-once, so a letter appearing
// after an illegal character can never restore validity.
func (p Policy) Check(username string) Result {
	runes := []rune(username)

	hasDigit := false
	charsOK := true
	for _, r := range runes {
		switch {
		case isASCIIDigit(r):
			hasDigit = true
		case !isASCIILetter(r):
			charsOK = false
		}
	}

	var violations []Violation
	if len(runes) < p.MinLength {
		violations = append(violations, Violation{
			Code:   ViolationTooShort,
			Reason: "username is shorter than the minimum length",
		})
	}
	if p.MaxLength > 0 && len(runes) > p.MaxLength {
		violations = append(violations, Violation{
			Code:   ViolationTooLong,
			Reason: "username is longer than the maximum length",
		})
	}
	if !charsOK {
		violations = append(violations, Violation{
			Code:   ViolationBadCharacter,
			Reason: "username may contain only letters and digits",
		})
	}
	if p.RequireDigit && !hasDigit {
		violations = append(violations, Violation{
			Code:   ViolationMissingDigit,
			Reason: "username must contain at least one digit",
		})
	}
	if p.isReserved(username) {
		violations = append(violations, Violation{
			Code:   ViolationReserved,
			Reason: "username is reserved",
		})
	}

	return Result{Valid: len(violations) == 0, Violations: violations}
}

func (p Policy) isReserved(username string) bool {
	if len(p.Reserved) == 0 {
		return false
	}
	folded := foldCaser.String(username)
	for _, reserved := range p.Reserved {
		if foldCaser.String(reserved) == folded {
			return true
		}
	}
	return false
}
