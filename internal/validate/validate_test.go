package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyVerdicts(t *testing.T) {
	policy := DefaultPolicy()

	cases := []struct {
		username string
		valid    bool
	}{
		{"R2D2", false},    // too short
		{"R2D2XY", true},   // 6 chars, digit, alphanumeric
		{"Robot#1", false}, // illegal character
		{"Robotss", false}, // no digit
		{"", false},
		{"abcd1", true},
		{"abcdefghi1", true},   // 10 chars
		{"abcdefghij1", false}, // 11 chars
		{"12345", true},
		{"Droid 42", false}, // space is not a letter or digit
	}

	for _, tc := range cases {
		t.Run(tc.username, func(t *testing.T) {
			result := policy.Check(tc.username)
			assert.Equal(t, tc.valid, result.Valid)
			if tc.valid {
				assert.Empty(t, result.Violations)
			} else {
				assert.NotEmpty(t, result.Violations)
			}
		})
	}
}

func TestCheckDisqualificationIsMonotonic(t *testing.T) {
	policy := DefaultPolicy()

	// The illegal character sits in the middle; the trailing letters and
	// digit must not flip the verdict back to valid.
	result := policy.Check("Ro#bot1")
	require.False(t, result.Valid)
	assert.Equal(t, []Violation{{
		Code:   ViolationBadCharacter,
		Reason: "username may contain only letters and digits",
	}}, result.Violations)

	// Same rule when the illegal character leads.
	result = policy.Check("#Robot1")
	require.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, ViolationBadCharacter, result.Violations[0].Code)
}

func TestCheckReportsEveryFailedRule(t *testing.T) {
	policy := DefaultPolicy()

	result := policy.Check("a#b")
	require.False(t, result.Valid)

	codes := make([]ViolationCode, 0, len(result.Violations))
	for _, v := range result.Violations {
		codes = append(codes, v.Code)
	}
	assert.Equal(t, []ViolationCode{ViolationTooShort, ViolationBadCharacter, ViolationMissingDigit}, codes)
}

func TestCheckRejectsNonASCIILetters(t *testing.T) {
	policy := DefaultPolicy()

	result := policy.Check("Robó42")
	require.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, ViolationBadCharacter, result.Violations[0].Code)
}

func TestCheckCountsRunesNotBytes(t *testing.T) {
	policy := DefaultPolicy()

	// Four runes, eight bytes. Must fail the length rule, not sneak past it.
	result := policy.Check("ééé1")
	require.False(t, result.Valid)

	codes := make(map[ViolationCode]bool)
	for _, v := range result.Violations {
		codes[v.Code] = true
	}
	assert.True(t, codes[ViolationTooShort])
}

func TestReservedNamesFoldCase(t *testing.T) {
	policy := DefaultPolicy()
	policy.Reserved = []string{"admin1"}

	result := policy.Check("ADMIN1")
	require.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, ViolationReserved, result.Violations[0].Code)

	// Reserved list is empty by default and must not affect stock verdicts.
	assert.True(t, DefaultPolicy().Check("admin1").Valid)
}

func TestCheckBoundaryLengths(t *testing.T) {
	policy := DefaultPolicy()

	assert.False(t, policy.Check(strings.Repeat("a", 3)+"1").Valid)  // 4
	assert.True(t, policy.Check(strings.Repeat("a", 4)+"1").Valid)   // 5
	assert.True(t, policy.Check(strings.Repeat("a", 9)+"1").Valid)   // 10
	assert.False(t, policy.Check(strings.Repeat("a", 10)+"1").Valid) // 11
}

func TestMessageTemplates(t *testing.T) {
	assert.Equal(t, "'R2D2XY' is a valid username.", Message("R2D2XY", true))
	assert.Equal(t, "'R2D2' is invalid.", Message("R2D2", false))
	assert.Equal(t, "'Robot#1' is invalid.", Message("Robot#1", false))
	assert.Equal(t, "'Robotss' is invalid.", Message("Robotss", false))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "R2D2XY", Normalize("  R2D2XY\n"))
	assert.Equal(t, "", Normalize("   "))
}
