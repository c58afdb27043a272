package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"feedback-analyzer-backend/internal/classifier"
	"feedback-analyzer-backend/internal/models"
	"feedback-analyzer-backend/internal/notify"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FeedbackStore is the persistence contract the feedback handlers need.
// Satisfied by repository.FeedbackRepo and repository.MemoryStore.
type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	FindByID(ctx context.Context, id string) (*models.Feedback, error)
	Find(ctx context.Context, q models.ListQuery) ([]models.Feedback, error)
	Count(ctx context.Context, f models.Filter) (int64, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Feedback, error)
	AddResponse(ctx context.Context, id string, response models.Response) (*models.Feedback, error)
}

type FeedbackHandler struct {
	store    FeedbackStore
	notifier notify.Notifier
	validate *validator.Validate
}

func NewFeedbackHandler(store FeedbackStore, notifier notify.Notifier) *FeedbackHandler {
	return &FeedbackHandler{
		store:    store,
		notifier: notifier,
		validate: validator.New(),
	}
}

type CreateFeedbackRequest struct {
	UserName    string   `json:"userName" validate:"omitempty,max=120"`
	UserEmail   string   `json:"userEmail" validate:"omitempty,email"`
	CompanyName string   `json:"companyName" validate:"omitempty,max=120"`
	Category    string   `json:"category" validate:"required,max=100"`
	Text        string   `json:"text" validate:"required,max=1000"`
	Source      string   `json:"source" validate:"omitempty,oneof=form email social api"`
	Tags        []string `json:"tags" validate:"omitempty,dive,min=1,max=50"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new reviewed responded closed"`
}

type AddResponseRequest struct {
	UserID   string `json:"userId" validate:"omitempty,max=100"`
	UserName string `json:"userName" validate:"omitempty,max=120"`
	Text     string `json:"text" validate:"required,max=1000"`
}

// --- POST /api/feedback ---

// Create validates the submission, classifies the text and stores the
// record. Classification happens on the synchronous path: a record is never
// visible to aggregation queries without sentiment and tags.
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	source := models.Source(req.Source)
	if source == "" {
		source = models.SourceForm
	}

	result := classifier.Classify(req.Text)

	feedback := &models.Feedback{
		UserName:    req.UserName,
		UserEmail:   req.UserEmail,
		CompanyName: req.CompanyName,
		Category:    req.Category,
		Sentiment:   result.Sentiment,
		Score:       result.Score,
		Text:        req.Text,
		Source:      source,
		Tags:        mergeTags(req.Tags, result.Categories),
		Status:      models.StatusNew,
	}

	if err := h.store.Create(r.Context(), feedback); err != nil {
		log.Printf("Error creating feedback: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create feedback"})
		return
	}

	// Notify in a background goroutine (non-blocking)
	go func() {
		message := formatFeedbackMessage(feedback)
		if err := h.notifier.Publish(context.Background(), message); err != nil {
			log.Printf("Error publishing feedback notification: %v", err)
		}
	}()

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "feedback created successfully",
		"feedback": feedback,
	})
}

// --- GET /api/feedback ---

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	q := listQueryFromRequest(r)

	feedback, err := h.store.Find(r.Context(), q)
	if err != nil {
		log.Printf("Error listing feedback: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	total, err := h.store.Count(r.Context(), q.Filter)
	if err != nil {
		log.Printf("Error counting feedback: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if feedback == nil {
		feedback = []models.Feedback{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"feedback":   feedback,
		"pagination": models.NewPagination(total, q.Page, q.Limit),
	})
}

// --- GET /api/feedback/{id} ---

func (h *FeedbackHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	feedback, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		log.Printf("Error finding feedback %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if feedback == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "feedback not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"feedback": feedback})
}

// --- PATCH /api/feedback/{id}/status ---

func (h *FeedbackHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	feedback, err := h.store.UpdateStatus(r.Context(), id, models.Status(req.Status))
	if err != nil {
		log.Printf("Error updating feedback status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if feedback == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "feedback not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "feedback status updated successfully",
		"feedback": feedback,
	})
}

// --- POST /api/feedback/{id}/responses ---

func (h *FeedbackHandler) AddResponse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AddResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	response := models.Response{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		UserName:  req.UserName,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}

	feedback, err := h.store.AddResponse(r.Context(), id, response)
	if err != nil {
		log.Printf("Error adding response to feedback %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if feedback == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "feedback not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "response added successfully",
		"feedback": feedback,
	})
}

// --- Helpers ---

func listQueryFromRequest(r *http.Request) models.ListQuery {
	params := r.URL.Query()
	q := models.ListQuery{
		Filter: models.Filter{
			Status:    params.Get("status"),
			Sentiment: params.Get("sentiment"),
			Category:  params.Get("category"),
			Source:    params.Get("source"),
			Search:    params.Get("search"),
		},
		SortBy:    params.Get("sortBy"),
		SortOrder: params.Get("sortOrder"),
	}
	if page, err := strconv.Atoi(params.Get("page")); err == nil {
		q.Page = page
	}
	if limit, err := strconv.Atoi(params.Get("limit")); err == nil {
		q.Limit = limit
	}
	q.Normalize()
	return q
}

// mergeTags combines the submitted tags with the classifier's categories,
// deduplicated, submitted tags first. Every record ends up with at least
// one tag because the classifier always yields a category.
func mergeTags(submitted, derived []string) []string {
	seen := make(map[string]bool, len(submitted)+len(derived))
	tags := make([]string, 0, len(submitted)+len(derived))
	for _, t := range append(append([]string{}, submitted...), derived...) {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

func formatFeedbackMessage(f *models.Feedback) string {
	from := f.UserName
	if from == "" {
		from = "anonymous"
	}
	return fmt.Sprintf("📝 New %s feedback in %s from %s: %s", f.Sentiment, f.Category, from, f.Text)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
