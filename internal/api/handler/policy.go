package handler

import (
	"net/http"

	"github.com/creamcroissant/namegate/internal/service"
)

// PolicyHandler exposes the effective acceptance rules.
type PolicyHandler struct {
	checks service.CheckService
}

func NewPolicyHandler(checks service.CheckService) *PolicyHandler {
	return &PolicyHandler{checks: checks}
}

func (h *PolicyHandler) HandleGet(w http.ResponseWriter, _ *http.Request) {
	policy := h.checks.Policy()
	respondJSON(w, http.StatusOK, map[string]any{
		"min_length":    policy.MinLength,
		"max_length":    policy.MaxLength,
		"require_digit": policy.RequireDigit,
		"reserved":      policy.Reserved,
	})
}
