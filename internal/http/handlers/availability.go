package handlers

import (
	"net/http"

	"github.com/medcareclinic/clinic-ai-assistant/internal/availability"
	"github.com/medcareclinic/clinic-ai-assistant/pkg/logging"
)

// AvailabilityHandler exposes the advertised slot table.
type AvailabilityHandler struct {
	slots  *availability.Store
	logger *logging.Logger
}

// NewAvailabilityHandler creates the availability handler.
func NewAvailabilityHandler(slots *availability.Store, logger *logging.Logger) *AvailabilityHandler {
	if slots == nil {
		panic("handlers: availability store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AvailabilityHandler{slots: slots, logger: logger}
}

// Slots handles GET /availability and GET /availability?date=YYYY-MM-DD.
// Without a date it returns the advertised dates; with one it returns the
// free times for that date, ascending.
func (h *AvailabilityHandler) Slots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusOK, map[string][]string{"dates": h.slots.Dates()})
		return
	}
	free := h.slots.FreeSlots(date)
	if free == nil {
		free = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "times": free})
}

// Table handles GET /availability/table: the full slot table including taken
// entries, for the clinic staff view.
func (h *AvailabilityHandler) Table(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.slots.Snapshot())
}
