package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/store"
)

// EventLogHandler serves the recent gesture event history.
type EventLogHandler struct {
	store *store.Store
}

// NewEventLogHandler creates a new EventLogHandler with the given store.
func NewEventLogHandler(s *store.Store) *EventLogHandler {
	return &EventLogHandler{store: s}
}

// Response types

type logEntryResponse struct {
	ID        int64  `json:"id"`
	Event     string `json:"event"`
	Label     string `json:"label"`
	ObjectID  string `json:"object_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

type listLogResponse struct {
	Events []logEntryResponse `json:"events"`
}

// ServeHTTP handles GET /api/log?limit=N, newest first.
func (h *EventLogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.store.Events().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read event log")
		return
	}

	response := listLogResponse{
		Events: make([]logEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		response.Events = append(response.Events, logEntryResponse{
			ID:        e.ID,
			Event:     e.Event,
			Label:     e.Label,
			ObjectID:  e.ObjectID,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
