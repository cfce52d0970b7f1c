package handler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/creamcroissant/namegate/internal/api/middleware"
	"github.com/creamcroissant/namegate/internal/service"
)

// CheckHandler serves username check requests.
type CheckHandler struct {
	checks  service.CheckService
	metrics *middleware.Metrics
}

func NewCheckHandler(checks service.CheckService, metrics *middleware.Metrics) *CheckHandler {
	return &CheckHandler{checks: checks, metrics: metrics}
}

type checkRequest struct {
	Username string `json:"username"`
}

func (h *CheckHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON body"})
		return
	}

	out, err := h.checks.Check(r.Context(), service.CheckInput{
		Username: req.Username,
		Source:   "http",
		IP:       clientIP(r),
	})
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			respondError(w, http.StatusTooManyRequests, err)
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	h.metrics.ObserveVerdict(out.Valid)
	respondJSON(w, http.StatusOK, out)
}

func clientIP(r *http.Request) string {
	// chi RealIP middleware has already folded X-Forwarded-For into RemoteAddr.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
