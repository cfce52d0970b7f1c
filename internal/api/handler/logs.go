package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/creamcroissant/namegate/internal/repository"
)

// LogsHandler serves the persisted check audit trail.
type LogsHandler struct {
	logs repository.CheckLogRepository
}

func NewLogsHandler(logs repository.CheckLogRepository) *LogsHandler {
	return &LogsHandler{logs: logs}
}

type checkLogItem struct {
	CheckID   string `json:"check_id"`
	Username  string `json:"username"`
	Valid     bool   `json:"valid"`
	Reasons   string `json:"reasons,omitempty"`
	Source    string `json:"source"`
	SourceIP  string `json:"source_ip,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (h *LogsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := repository.CheckLogFilter{Limit: 50}

	q := r.URL.Query()
	if raw := q.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 && limit <= 500 {
			filter.Limit = limit
		}
	}
	if raw := q.Get("valid"); raw != "" {
		if valid, err := strconv.ParseBool(raw); err == nil {
			filter.Valid = &valid
		}
	}
	if raw := q.Get("username"); raw != "" {
		filter.Username = &raw
	}
	if raw := q.Get("source"); raw != "" {
		filter.Source = &raw
	}

	logs, err := h.logs.List(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	total, err := h.logs.Count(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	items := make([]checkLogItem, 0, len(logs))
	for _, log := range logs {
		items = append(items, checkLogItem{
			CheckID:   log.CheckID,
			Username:  log.Username,
			Valid:     log.Valid,
			Reasons:   log.Reasons,
			Source:    log.Source,
			SourceIP:  log.SourceIP,
			CreatedAt: time.Unix(log.CreatedAt, 0).UTC().Format(time.RFC3339),
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"total": total,
		"items": items,
	})
}
