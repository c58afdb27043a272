package handlers

import (
	"log"
	"net/http"

	"feedback-analyzer-backend/internal/analytics"
	"feedback-analyzer-backend/internal/models"
)

type AnalyticsHandler struct {
	service *analytics.Service
}

func NewAnalyticsHandler(service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// --- GET /api/analytics/dashboard ---

func (h *AnalyticsHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	filter := models.Filter{
		Status:    params.Get("status"),
		Sentiment: params.Get("sentiment"),
		Category:  params.Get("category"),
		Source:    params.Get("source"),
		Search:    params.Get("search"),
	}

	stats, err := h.service.DashboardStats(r.Context(), filter)
	if err != nil {
		log.Printf("Error computing dashboard stats: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

// --- GET /api/analytics/categories ---

func (h *AnalyticsHandler) GetCategoryDistribution(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.CategoryDistribution(r.Context())
	if err != nil {
		log.Printf("Error computing category distribution: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// --- GET /api/analytics/sentiment-trends ---

func (h *AnalyticsHandler) GetSentimentTrends(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")

	trends, err := h.service.SentimentTrends(r.Context(), period)
	if err != nil {
		log.Printf("Error computing sentiment trends: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"trends": trends})
}
