package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/medcareclinic/clinic-ai-assistant/internal/http/handlers"
	httpmiddleware "github.com/medcareclinic/clinic-ai-assistant/internal/http/middleware"
	"github.com/medcareclinic/clinic-ai-assistant/internal/webchat"
	"github.com/medcareclinic/clinic-ai-assistant/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ChatHandler         *handlers.ChatHandler
	BookingHandler      *handlers.BookingHandler
	AvailabilityHandler *handlers.AvailabilityHandler
	ServicesHandler     *handlers.ServicesHandler
	WebchatHandler      *webchat.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// Requests/sec per IP on the chat endpoints; 0 disables limiting.
	ChatRateLimit float64
	ChatRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handlers.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Get("/session/new", cfg.ChatHandler.NewSession)

	r.Route("/chat", func(chat chi.Router) {
		if cfg.ChatRateLimit > 0 {
			chat.Use(httpmiddleware.RateLimit(cfg.ChatRateLimit, cfg.ChatRateBurst))
		}
		chat.Post("/", cfg.ChatHandler.Message)
		chat.Get("/{sessionID}/history", cfg.ChatHandler.History)
		chat.Post("/{sessionID}/reset", cfg.ChatHandler.Reset)
	})

	r.Route("/bookings", func(b chi.Router) {
		b.Post("/", cfg.BookingHandler.Commit)
		b.Get("/", cfg.BookingHandler.List)
	})

	r.Get("/availability", cfg.AvailabilityHandler.Slots)
	r.Get("/availability/table", cfg.AvailabilityHandler.Table)
	r.Get("/services", cfg.ServicesHandler.List)
	r.Get("/services/{serviceID}", cfg.ServicesHandler.Get)

	if cfg.WebchatHandler != nil {
		r.Get("/webchat/ws", cfg.WebchatHandler.HandleWebSocket)
	}

	return r
}
