package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/hologram/internal/store"
)

const maxEventLimit = 1000

// EventHandler serves the interaction journal.
type EventHandler struct {
	store *store.Store
}

// NewEventHandler creates a new EventHandler with the given store.
func NewEventHandler(s *store.Store) *EventHandler {
	return &EventHandler{store: s}
}

type listEventsResponse struct {
	Events []*store.Event `json:"events"`
}

// ServeHTTP handles GET /api/events.
//
// Without parameters it returns the most recent events across sessions,
// newest first. ?limit=N caps the count and ?session=ID returns one
// session's events in the order they happened.
func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, maxEventLimit)
	}

	var (
		events []*store.Event
		err    error
	)
	if id := r.URL.Query().Get("session"); id != "" {
		events, err = h.store.Events().ListBySession(id)
		if err == nil && limit > 0 && len(events) > limit {
			events = events[:limit]
		}
	} else {
		events, err = h.store.Events().Recent(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	if events == nil {
		events = []*store.Event{}
	}
	writeJSON(w, http.StatusOK, listEventsResponse{Events: events})
}
