package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hive-corporation/autosoc/internal/adapter/bus"
	"github.com/hive-corporation/autosoc/internal/adapter/executor"
	"github.com/hive-corporation/autosoc/internal/adapter/handler"
	"github.com/hive-corporation/autosoc/internal/adapter/llm"
	"github.com/hive-corporation/autosoc/internal/adapter/notifier"
	"github.com/hive-corporation/autosoc/internal/adapter/repository"
	"github.com/hive-corporation/autosoc/internal/core/ports"
	"github.com/hive-corporation/autosoc/internal/core/service"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found (this is fine if the environment is already set)")
	}

	ctx := context.Background()

	// Database connection (optional - incidents/audits are skipped without it)
	var repo ports.IncidentRepository
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		dbPool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer dbPool.Close()
		repo = repository.NewPostgresRepository(dbPool)
		log.Println("✅ Incident store enabled")
	} else {
		log.Println("⚠️  Incident store disabled (no DATABASE_URL)")
	}

	// Slack notifier (optional - only if token configured)
	var slackNotifier ports.Notifier
	if slackToken := os.Getenv("SLACK_BOT_TOKEN"); slackToken != "" {
		slackNotifier = notifier.NewSlackNotifier(
			slackToken,
			getEnv("SLACK_CHANNEL_SECURITY", "#security-alerts"),
			getEnv("SLACK_MENTION_TEAM", "@security-team"),
		)
		log.Println("✅ Slack notifier enabled")
	} else {
		log.Println("⚠️  Slack notifier disabled (no SLACK_BOT_TOKEN)")
	}

	// NATS publisher (optional)
	var publisher ports.EventPublisher
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		nc, err := nats.Connect(natsURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to NATS: %v", err)
		}
		defer nc.Close()
		publisher = bus.NewNatsPublisher(nc)
		log.Println("✅ NATS publisher enabled")
	} else {
		log.Println("⚠️  NATS publisher disabled (no NATS_URL)")
	}

	// Initialize pipeline metrics
	llm.InitMetrics()
	log.Println("✅ Prometheus metrics initialized")

	// Classification backend + core services
	classifier := llm.NewClassifierFromEnv()
	log.Printf("✅ Classifier provider: %s", classifier.Name())

	detector := service.NewThreatDetector(classifier)
	engine := service.NewAutoResponseEngine(executor.NewExecutor(slackNotifier, repo))

	// HTTP router
	router := mux.NewRouter()

	restHandler := handler.NewRestHandler(detector, engine, repo, slackNotifier, publisher)

	// Health check
	router.HandleFunc("/api/v1/health", restHandler.Health).Methods("GET")

	// Pipeline endpoints
	router.HandleFunc("/api/v1/analyze", restHandler.AnalyzeEvent).Methods("POST")
	router.HandleFunc("/api/v1/triage", restHandler.TriageCluster).Methods("POST")
	router.HandleFunc("/api/v1/respond", restHandler.ExecuteResponse).Methods("POST")
	router.HandleFunc("/api/v1/reports/weekly", restHandler.WeeklyReport).Methods("POST")

	// Metrics endpoint (requires authentication)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Middleware
	router.Use(loggingMiddleware)
	router.Use(authMiddleware)

	// HTTP server
	port := getEnv("REST_API_PORT", "8080")
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second, // classifier calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("🚀 AutoSOC REST API listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("→ %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
		log.Printf("← %s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}

func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth for health check
		if r.URL.Path == "/api/v1/health" {
			next.ServeHTTP(w, r)
			return
		}

		// Verify API token for all other endpoints (including /metrics)
		token := r.Header.Get("Authorization")
		expectedToken := os.Getenv("REST_API_AUTH_TOKEN")

		// If no token configured, allow all requests (development mode)
		if expectedToken == "" {
			log.Println("⚠️  Warning: REST_API_AUTH_TOKEN not set - auth disabled")
			next.ServeHTTP(w, r)
			return
		}

		// Validate Bearer token
		if token != "Bearer "+expectedToken {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
