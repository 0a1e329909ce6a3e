package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medcareclinic/clinic-ai-assistant/internal/catalog"
	"github.com/medcareclinic/clinic-ai-assistant/pkg/logging"
)

// ServicesHandler exposes the service catalog.
type ServicesHandler struct {
	catalog *catalog.Store
	logger  *logging.Logger
}

// NewServicesHandler creates the services handler.
func NewServicesHandler(cat *catalog.Store, logger *logging.Logger) *ServicesHandler {
	if cat == nil {
		panic("handlers: catalog store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ServicesHandler{catalog: cat, logger: logger}
}

// List handles GET /services and GET /services?category=...
func (h *ServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	services := h.catalog.List(category)
	if services == nil {
		services = []catalog.Service{}
	}
	writeJSON(w, http.StatusOK, services)
}

// Get handles GET /services/{serviceID}.
func (h *ServicesHandler) Get(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "serviceID")
	svc, ok := h.catalog.Get(serviceID)
	if !ok {
		http.Error(w, "unknown service", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}
