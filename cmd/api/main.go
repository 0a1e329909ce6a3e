package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/medcareclinic/clinic-ai-assistant/internal/api/router"
	"github.com/medcareclinic/clinic-ai-assistant/internal/availability"
	"github.com/medcareclinic/clinic-ai-assistant/internal/booking"
	"github.com/medcareclinic/clinic-ai-assistant/internal/catalog"
	appconfig "github.com/medcareclinic/clinic-ai-assistant/internal/config"
	"github.com/medcareclinic/clinic-ai-assistant/internal/dialogue"
	"github.com/medcareclinic/clinic-ai-assistant/internal/http/handlers"
	"github.com/medcareclinic/clinic-ai-assistant/internal/observability/metrics"
	"github.com/medcareclinic/clinic-ai-assistant/internal/session"
	"github.com/medcareclinic/clinic-ai-assistant/internal/webchat"
	"github.com/medcareclinic/clinic-ai-assistant/pkg/logging"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-ai-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Service catalog
	cat, err := catalog.LoadStore(cfg.ServicesFile)
	if err != nil {
		logger.Warn("services file unavailable, using built-in catalog",
			"path", cfg.ServicesFile, "error", err)
		cat, err = catalog.NewStore(catalog.DefaultServices())
		if err != nil {
			logger.Error("failed to build catalog", "error", err)
			os.Exit(1)
		}
	}

	// Availability table, seeded with default slots on first run
	persister := availability.NewJSONFilePersister(cfg.AvailabilityFile)
	table, err := persister.Load()
	if err != nil {
		logger.Error("failed to load availability", "error", err)
		os.Exit(1)
	}
	if len(table) == 0 {
		table = availability.DefaultSlots(time.Now(), cfg.DefaultSlotDays)
		if err := persister.Save(table); err != nil {
			logger.Error("failed to seed availability", "error", err)
			os.Exit(1)
		}
		logger.Info("seeded default availability", "days", cfg.DefaultSlotDays)
	}
	slots, err := availability.Open(persister)
	if err != nil {
		logger.Error("failed to open availability store", "error", err)
		os.Exit(1)
	}

	// Booking ledger: Postgres when configured, JSON file otherwise
	var ledger booking.Ledger
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		ledger = booking.NewPostgresLedger(db)
		logger.Info("booking ledger backed by postgres")
	} else {
		fileLedger, err := booking.OpenJSONFileLedger(cfg.BookingsFile)
		if err != nil {
			logger.Error("failed to open bookings file", "error", err)
			os.Exit(1)
		}
		ledger = fileLedger
		logger.Info("booking ledger backed by json file", "path", cfg.BookingsFile)
	}

	// Session store
	var sessions session.Store
	switch cfg.SessionBackend {
	case "redis":
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		defer client.Close()
		sessions = session.NewRedisStore(client, cfg.SessionIdleTimeout, logger)
		logger.Info("session store backed by redis", "addr", cfg.RedisAddr)
	default:
		memStore := session.NewMemoryStore(cfg.SessionIdleTimeout, logger)
		go memStore.RunJanitor(ctx, cfg.SessionCleanupInterval)
		sessions = memStore
	}

	generator := buildGenerator(ctx, cfg, logger)

	convMetrics := metrics.NewConversationMetrics(nil)
	bookingMetrics := metrics.NewBookingMetrics(nil)

	// Wire services and handlers
	bookings := booking.NewService(slots, ledger, logger)
	analyzer := dialogue.NewAnalyzer(cat, slots)
	dlg := dialogue.NewService(sessions, analyzer, bookings, generator, logger,
		convMetrics, bookingMetrics, cfg.TranscriptLimit)

	r := router.New(&router.Config{
		Logger:              logger,
		ChatHandler:         handlers.NewChatHandler(dlg, logger),
		BookingHandler:      handlers.NewBookingHandler(bookings, logger),
		AvailabilityHandler: handlers.NewAvailabilityHandler(slots, logger),
		ServicesHandler:     handlers.NewServicesHandler(cat, logger),
		WebchatHandler:      webchat.NewHandler(dlg, logger),
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		ChatRateLimit:       cfg.ChatRateLimit,
		ChatRateBurst:       cfg.ChatRateBurst,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildGenerator picks the reply generator: Bedrock when a model id is
// configured, Gemini as fallback or standalone, canned replies when neither
// provider is configured.
func buildGenerator(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) dialogue.TextGenerator {
	var primary, fallback dialogue.TextGenerator

	if cfg.BedrockModelID != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Warn("failed to load AWS config, bedrock disabled", "error", err)
		} else {
			primary = dialogue.NewBedrockGenerator(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID)
			logger.Info("bedrock generator enabled", "model", cfg.BedrockModelID)
		}
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := dialogue.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Warn("failed to create gemini generator", "error", err)
		} else if primary == nil {
			primary = gemini
			logger.Info("gemini generator enabled", "model", cfg.GeminiModelID)
		} else {
			fallback = gemini
			logger.Info("gemini fallback enabled", "model", cfg.GeminiModelID)
		}
	}

	if primary == nil {
		logger.Info("no LLM configured, using canned replies")
		return dialogue.StaticGenerator{}
	}
	if fallback == nil {
		return primary
	}
	return dialogue.NewFallbackGenerator(primary, fallback, logger)
}
