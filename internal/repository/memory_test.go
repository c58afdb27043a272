package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"feedback-analyzer-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRecord(t *testing.T, store *MemoryStore, f models.Feedback) models.Feedback {
	t.Helper()
	if f.Category == "" {
		f.Category = "General"
	}
	if f.Sentiment == "" {
		f.Sentiment = models.SentimentNeutral
	}
	require.NoError(t, store.Create(context.Background(), &f))
	return f
}

func TestMemoryStore_Pagination(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 23; i++ {
		seedRecord(t, store, models.Feedback{Text: fmt.Sprintf("item %d", i), CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}

	total, err := store.Count(context.Background(), models.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(23), total)
	assert.Equal(t, int64(3), models.NewPagination(total, 1, 10).Pages)

	pageOne, err := store.Find(context.Background(), models.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, pageOne, 10)

	pageThree, err := store.Find(context.Background(), models.ListQuery{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, pageThree, 3)

	pageFour, err := store.Find(context.Background(), models.ListQuery{Page: 4, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, pageFour)
}

func TestMemoryStore_DefaultSortNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	old := seedRecord(t, store, models.Feedback{Text: "old", CreatedAt: time.Now().Add(-time.Hour)})
	recent := seedRecord(t, store, models.Feedback{Text: "recent", CreatedAt: time.Now()})

	feedback, err := store.Find(context.Background(), models.ListQuery{})
	require.NoError(t, err)
	require.Len(t, feedback, 2)
	assert.Equal(t, recent.Text, feedback[0].Text)
	assert.Equal(t, old.Text, feedback[1].Text)
}

func TestMemoryStore_SortByScoreAscending(t *testing.T) {
	store := NewMemoryStore()
	seedRecord(t, store, models.Feedback{Score: 0.9})
	seedRecord(t, store, models.Feedback{Score: 0.1})
	seedRecord(t, store, models.Feedback{Score: 0.5})

	feedback, err := store.Find(context.Background(), models.ListQuery{SortBy: "score", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, feedback, 3)
	assert.Equal(t, 0.1, feedback[0].Score)
	assert.Equal(t, 0.9, feedback[2].Score)
}

func TestMemoryStore_SortByTextAndUpdatedAt(t *testing.T) {
	store := NewMemoryStore()
	first := seedRecord(t, store, models.Feedback{Text: "banana"})
	seedRecord(t, store, models.Feedback{Text: "apple"})

	feedback, err := store.Find(context.Background(), models.ListQuery{SortBy: "text", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, feedback, 2)
	assert.Equal(t, "apple", feedback[0].Text)
	assert.Equal(t, "banana", feedback[1].Text)

	// touching a record bumps updatedAt, so it sorts first descending
	_, err = store.UpdateStatus(context.Background(), first.ID.Hex(), models.StatusReviewed)
	require.NoError(t, err)

	feedback, err = store.Find(context.Background(), models.ListQuery{SortBy: "updatedAt", SortOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, feedback, 2)
	assert.Equal(t, "banana", feedback[0].Text)
}

func TestMemoryStore_EqualityFilters(t *testing.T) {
	store := NewMemoryStore()
	seedRecord(t, store, models.Feedback{Sentiment: models.SentimentPositive, Status: models.StatusNew, Source: models.SourceForm})
	seedRecord(t, store, models.Feedback{Sentiment: models.SentimentNegative, Status: models.StatusClosed, Source: models.SourceEmail})

	count, err := store.Count(context.Background(), models.Filter{Sentiment: "negative"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = store.Count(context.Background(), models.Filter{Status: "new", Sentiment: "positive"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = store.Count(context.Background(), models.Filter{Source: "social"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMemoryStore_SearchAcrossFieldsCaseInsensitive(t *testing.T) {
	store := NewMemoryStore()
	seedRecord(t, store, models.Feedback{Text: "The dashboard is slow"})
	seedRecord(t, store, models.Feedback{Text: "All fine", UserName: "Dana Slowinski"})
	seedRecord(t, store, models.Feedback{Text: "All fine", CompanyName: "SlowCo"})
	seedRecord(t, store, models.Feedback{Text: "unrelated"})

	count, err := store.Count(context.Background(), models.Filter{Search: "SLOW"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMemoryStore_GroupCountTags(t *testing.T) {
	store := NewMemoryStore()
	seedRecord(t, store, models.Feedback{Tags: []string{"ui", "speed"}})
	seedRecord(t, store, models.Feedback{Tags: []string{"ui"}})
	seedRecord(t, store, models.Feedback{Tags: []string{"docs"}})

	counts, err := store.GroupCount(context.Background(), models.Filter{}, "tags", true, 0)
	require.NoError(t, err)
	require.Len(t, counts, 3)
	assert.Equal(t, models.FieldCount{Name: "ui", Count: 2}, counts[0])
	// tie between docs and speed breaks on the name
	assert.Equal(t, models.FieldCount{Name: "docs", Count: 1}, counts[1])
	assert.Equal(t, models.FieldCount{Name: "speed", Count: 1}, counts[2])
}

func TestMemoryStore_GroupCountCategoriesWithLimit(t *testing.T) {
	store := NewMemoryStore()
	seedRecord(t, store, models.Feedback{Category: "Support"})
	seedRecord(t, store, models.Feedback{Category: "Support"})
	seedRecord(t, store, models.Feedback{Category: "Features"})

	counts, err := store.GroupCount(context.Background(), models.Filter{}, "category", false, 1)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "Support", counts[0].Name)
}

func TestMemoryStore_FindCreatedSince(t *testing.T) {
	store := NewMemoryStore()
	cutoff := time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)
	seedRecord(t, store, models.Feedback{Text: "before", CreatedAt: cutoff.Add(-time.Minute)})
	seedRecord(t, store, models.Feedback{Text: "exactly", CreatedAt: cutoff})
	seedRecord(t, store, models.Feedback{Text: "after", CreatedAt: cutoff.Add(time.Minute)})

	feedback, err := store.FindCreatedSince(context.Background(), models.Filter{}, cutoff)
	require.NoError(t, err)
	assert.Len(t, feedback, 2)
}

func TestMemoryStore_UpdateStatus(t *testing.T) {
	store := NewMemoryStore()
	created := seedRecord(t, store, models.Feedback{Text: "needs review"})

	updated, err := store.UpdateStatus(context.Background(), created.ID.Hex(), models.StatusReviewed)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.StatusReviewed, updated.Status)

	missing, err := store.UpdateStatus(context.Background(), "does-not-exist", models.StatusClosed)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryStore_AddResponseMarksResponded(t *testing.T) {
	store := NewMemoryStore()
	created := seedRecord(t, store, models.Feedback{Text: "please reply"})

	updated, err := store.AddResponse(context.Background(), created.ID.Hex(), models.Response{
		ID:        "resp-1",
		Text:      "on it",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.StatusResponded, updated.Status)
	require.Len(t, updated.Responses, 1)
	assert.Equal(t, "on it", updated.Responses[0].Text)

	// appends stay ordered
	updated, err = store.AddResponse(context.Background(), created.ID.Hex(), models.Response{ID: "resp-2", Text: "done"})
	require.NoError(t, err)
	require.Len(t, updated.Responses, 2)
	assert.Equal(t, "resp-1", updated.Responses[0].ID)
	assert.Equal(t, "resp-2", updated.Responses[1].ID)
}

func TestMemoryStore_FindByID(t *testing.T) {
	store := NewMemoryStore()
	created := seedRecord(t, store, models.Feedback{Text: "hello"})

	found, err := store.FindByID(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "hello", found.Text)

	missing, err := store.FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
