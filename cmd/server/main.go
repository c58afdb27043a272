package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"feedback-analyzer-backend/internal/analytics"
	"feedback-analyzer-backend/internal/database"
	"feedback-analyzer-backend/internal/handlers"
	"feedback-analyzer-backend/internal/notify"
	"feedback-analyzer-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	mongoURI := getEnv("MONGODB_URI", "")
	dbName := getEnv("DB_NAME", "feedback_analyzer")
	port := getEnv("PORT", "8080")

	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is required")
	}

	// Connect to MongoDB
	if err := database.Connect(mongoURI, dbName); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	feedbackRepo := repository.NewFeedbackRepo()

	// Ensure indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := feedbackRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create feedback indexes: %v", err)
	}

	// Notifier: email when Resend is configured, log otherwise
	var notifier notify.Notifier
	if apiKey := getEnv("RESEND_API_KEY", ""); apiKey != "" {
		notifier = notify.NewEmailNotifier(apiKey, getEnv("FROM_EMAIL", ""), getEnv("NOTIFY_EMAIL", ""))
	} else {
		log.Println("⚠️  RESEND_API_KEY not set, feedback notifications go to the server log")
		notifier = notify.NewLogNotifier()
	}

	analyticsService := analytics.NewService(feedbackRepo, clockwork.NewRealClock())

	feedbackHandler := handlers.NewFeedbackHandler(feedbackRepo, notifier)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"feedback-analyzer-backend"}`))
	})

	r.Route("/api/feedback", func(r chi.Router) {
		r.Post("/", feedbackHandler.Create)
		r.Get("/", feedbackHandler.List)
		r.Get("/{id}", feedbackHandler.GetByID)
		r.Patch("/{id}/status", feedbackHandler.UpdateStatus)
		r.Post("/{id}/responses", feedbackHandler.AddResponse)
	})

	r.Route("/api/analytics", func(r chi.Router) {
		r.Get("/dashboard", analyticsHandler.GetDashboardStats)
		r.Get("/categories", analyticsHandler.GetCategoryDistribution)
		r.Get("/sentiment-trends", analyticsHandler.GetSentimentTrends)
	})

	// Start server
	log.Printf("🚀 Feedback analyzer backend starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
