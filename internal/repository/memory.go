package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"feedback-analyzer-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryStore keeps feedback in an in-memory slice and satisfies the same
// contract as FeedbackRepo: any store that can count, fetch with
// sort/skip/limit and group-count works for the aggregation layer. Used in
// tests and as a reference implementation of the filter semantics.
type MemoryStore struct {
	mu       sync.RWMutex
	feedback []models.Feedback
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Create(_ context.Context, feedback *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = now
	}
	feedback.UpdatedAt = now
	if feedback.Status == "" {
		feedback.Status = models.StatusNew
	}
	if feedback.ID.IsZero() {
		feedback.ID = bson.NewObjectID()
	}
	s.feedback = append(s.feedback, *feedback)
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.feedback {
		if s.feedback[i].ID.Hex() == id {
			f := s.feedback[i]
			return &f, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) Find(_ context.Context, q models.ListQuery) ([]models.Feedback, error) {
	q.Normalize()

	s.mu.RLock()
	matched := s.filtered(q.Filter)
	s.mu.RUnlock()

	sortFeedback(matched, q.SortBy, q.SortOrder)

	skip := q.Skip()
	if skip >= len(matched) {
		return []models.Feedback{}, nil
	}
	end := skip + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], nil
}

func (s *MemoryStore) Count(_ context.Context, f models.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.filtered(f))), nil
}

// GroupCount mirrors the Mongo pipeline: group by a key function, count,
// sort by count descending with the name as ascending tie-break.
func (s *MemoryStore) GroupCount(_ context.Context, f models.Filter, field string, unwind bool, limit int64) ([]models.FieldCount, error) {
	var keyFn func(models.Feedback) []string
	switch {
	case field == "tags" && unwind:
		keyFn = func(r models.Feedback) []string { return r.Tags }
	case field == "category":
		keyFn = func(r models.Feedback) []string { return []string{r.Category} }
	case field == "source":
		keyFn = func(r models.Feedback) []string { return []string{string(r.Source)} }
	case field == "sentiment":
		keyFn = func(r models.Feedback) []string { return []string{string(r.Sentiment)} }
	default:
		keyFn = func(r models.Feedback) []string { return []string{r.Category} }
	}

	s.mu.RLock()
	counts := groupCount(s.filtered(f), keyFn)
	s.mu.RUnlock()

	if limit > 0 && int64(len(counts)) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

func (s *MemoryStore) FindCreatedSince(_ context.Context, f models.Filter, since time.Time) ([]models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Feedback
	for _, r := range s.filtered(f) {
		if !r.CreatedAt.Before(since) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status models.Status) (*models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.feedback {
		if s.feedback[i].ID.Hex() == id {
			s.feedback[i].Status = status
			s.feedback[i].UpdatedAt = time.Now()
			f := s.feedback[i]
			return &f, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) AddResponse(_ context.Context, id string, response models.Response) (*models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.feedback {
		if s.feedback[i].ID.Hex() == id {
			s.feedback[i].Responses = append(s.feedback[i].Responses, response)
			s.feedback[i].Status = models.StatusResponded
			s.feedback[i].UpdatedAt = time.Now()
			f := s.feedback[i]
			return &f, nil
		}
	}
	return nil, nil
}

// filtered must be called with the lock held.
func (s *MemoryStore) filtered(f models.Filter) []models.Feedback {
	matched := make([]models.Feedback, 0, len(s.feedback))
	for _, r := range s.feedback {
		if matchesFilter(r, f) {
			matched = append(matched, r)
		}
	}
	return matched
}

func matchesFilter(r models.Feedback, f models.Filter) bool {
	if f.Status != "" && string(r.Status) != f.Status {
		return false
	}
	if f.Sentiment != "" && string(r.Sentiment) != f.Sentiment {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Source != "" && string(r.Source) != f.Source {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Text), term) &&
			!strings.Contains(strings.ToLower(r.UserName), term) &&
			!strings.Contains(strings.ToLower(r.CompanyName), term) {
			return false
		}
	}
	return true
}

// groupCount buckets records by the values keyFn yields. Multi-valued keys
// (tags) contribute one count per value.
func groupCount(records []models.Feedback, keyFn func(models.Feedback) []string) []models.FieldCount {
	totals := make(map[string]int64)
	for _, r := range records {
		for _, key := range keyFn(r) {
			totals[key]++
		}
	}

	counts := make([]models.FieldCount, 0, len(totals))
	for name, count := range totals {
		counts = append(counts, models.FieldCount{Name: name, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	return counts
}

func sortFeedback(feedback []models.Feedback, sortBy, sortOrder string) {
	less := func(a, b models.Feedback) bool {
		switch sortBy {
		case "score":
			return a.Score < b.Score
		case "status":
			return a.Status < b.Status
		case "sentiment":
			return a.Sentiment < b.Sentiment
		case "category":
			return a.Category < b.Category
		case "source":
			return a.Source < b.Source
		case "userName":
			return a.UserName < b.UserName
		case "companyName":
			return a.CompanyName < b.CompanyName
		case "text":
			return a.Text < b.Text
		case "updatedAt":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(feedback, func(i, j int) bool {
		if sortOrder == "asc" {
			return less(feedback[i], feedback[j])
		}
		return less(feedback[j], feedback[i])
	})
}
