package config

import "github.com/creamcroissant/namegate/internal/validate"

// Rules converts the configured overrides into a validate.Policy, falling
// back to the stock rules for unset length bounds.
func (p PolicyConfig) Rules() validate.Policy {
	policy := validate.DefaultPolicy()
	if p.MinLength > 0 {
		policy.MinLength = p.MinLength
	}
	if p.MaxLength > 0 {
		policy.MaxLength = p.MaxLength
	}
	policy.RequireDigit = p.RequireDigit
	if len(p.Reserved) > 0 {
		policy.Reserved = append([]string(nil), p.Reserved...)
	}
	return policy
}
