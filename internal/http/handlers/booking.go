package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medcareclinic/clinic-ai-assistant/internal/booking"
	"github.com/medcareclinic/clinic-ai-assistant/pkg/logging"
)

// BookingHandler exposes direct booking endpoints alongside the chat flow.
type BookingHandler struct {
	bookings *booking.Service
	logger   *logging.Logger
}

// NewBookingHandler creates the booking handler.
func NewBookingHandler(bookings *booking.Service, logger *logging.Logger) *BookingHandler {
	if bookings == nil {
		panic("handlers: booking service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{bookings: bookings, logger: logger}
}

type commitRequest struct {
	SessionID   string `json:"session_id"`
	ServiceID   string `json:"service_id"`
	PatientName string `json:"patient_name"`
	PatientDOB  string `json:"patient_dob"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// Commit handles POST /bookings.
func (h *BookingHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	b, err := h.bookings.Commit(r.Context(), booking.Request{
		SessionID:   req.SessionID,
		ServiceID:   req.ServiceID,
		PatientName: req.PatientName,
		PatientDOB:  req.PatientDOB,
		Date:        req.Date,
		Time:        req.Time,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, b)
	case errors.Is(err, booking.ErrSlotConflict):
		http.Error(w, "slot is not available", http.StatusConflict)
	case errors.Is(err, booking.ErrPersistence):
		http.Error(w, "booking could not be saved, please try again", http.StatusServiceUnavailable)
	default:
		http.Error(w, "invalid booking request", http.StatusBadRequest)
	}
}

// List handles GET /bookings?session_id=...
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	list, err := h.bookings.ListBySession(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("booking list failed", "session_id", sessionID, "error", err)
		http.Error(w, "failed to list bookings", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []booking.Booking{}
	}
	writeJSON(w, http.StatusOK, list)
}
