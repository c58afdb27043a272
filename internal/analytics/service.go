// Package analytics turns the stored feedback collection into the dashboard
// statistics: sentiment distribution, category and tag rankings, response
// rate and date-bucketed trend series. All operations are read-only and each
// call reflects a single snapshot of the store; two calls over an unchanged
// store yield identical output.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"feedback-analyzer-backend/internal/models"

	"github.com/jonboulle/clockwork"
)

// ErrUnavailable is the single error kind every aggregation failure wraps.
// An operation either fully succeeds or fails whole; no partial or
// zero-filled results are reported.
var ErrUnavailable = errors.New("feedback data unavailable")

const dashboardTrendDays = 30

// FeedbackReader is the slice of the store contract the aggregator needs.
type FeedbackReader interface {
	Count(ctx context.Context, f models.Filter) (int64, error)
	GroupCount(ctx context.Context, f models.Filter, field string, unwind bool, limit int64) ([]models.FieldCount, error)
	FindCreatedSince(ctx context.Context, f models.Filter, since time.Time) ([]models.Feedback, error)
}

type Service struct {
	store FeedbackReader
	clock clockwork.Clock
}

func NewService(store FeedbackReader, clock clockwork.Clock) *Service {
	return &Service{store: store, clock: clock}
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

type SentimentBreakdown struct {
	Positive int64 `json:"positive"`
	Neutral  int64 `json:"neutral"`
	Negative int64 `json:"negative"`
}

// TrendPoint is one day of the 30-day dashboard trend. Date is the raw ISO
// date string the dashboard chart keys on.
type TrendPoint struct {
	Date      string             `json:"date"`
	Count     int64              `json:"count"`
	Sentiment SentimentBreakdown `json:"sentiment"`
}

// DashboardStats is the summary block consumed by the dashboard. Field names
// are a stable contract with the frontend. AvgResponseTime stays nil until
// real response latency tracking exists; the key is then absent instead of
// carrying a fabricated number.
type DashboardStats struct {
	Total           int64           `json:"total"`
	Positive        int64           `json:"positive"`
	Neutral         int64           `json:"neutral"`
	Negative        int64           `json:"negative"`
	ResponseRate    int64           `json:"responseRate"`
	AvgResponseTime *float64        `json:"avgResponseTime,omitempty"`
	TopCategories   []CategoryCount `json:"topCategories"`
	TopTags         []TagCount      `json:"topTags"`
	Trend           []TrendPoint    `json:"trend"`
}

// NameValue is one slice of the category distribution chart.
type NameValue struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// TrendBucket is one day of the period trend chart. Name is the rendered
// bucket label, which depends on the requested period.
type TrendBucket struct {
	Name     string `json:"name"`
	Positive int64  `json:"positive"`
	Neutral  int64  `json:"neutral"`
	Negative int64  `json:"negative"`
}

// DashboardStats computes the dashboard summary over the optionally
// filtered collection. ResponseRate is the rounded percentage of records in
// a responded or closed state, defined as 0 for an empty collection.
func (s *Service) DashboardStats(ctx context.Context, f models.Filter) (*DashboardStats, error) {
	total, err := s.store.Count(ctx, f)
	if err != nil {
		return nil, unavailable(err)
	}

	// Sub-counts conjoin with the caller's filter: a filter that already
	// pins sentiment or status makes the matching sub-count equal to the
	// total and the others zero.
	bySentiment := make(map[models.Sentiment]int64, 3)
	for _, sentiment := range []models.Sentiment{models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative} {
		if f.Sentiment != "" {
			if f.Sentiment == string(sentiment) {
				bySentiment[sentiment] = total
			}
			continue
		}
		sf := f
		sf.Sentiment = string(sentiment)
		count, err := s.store.Count(ctx, sf)
		if err != nil {
			return nil, unavailable(err)
		}
		bySentiment[sentiment] = count
	}

	responded := int64(0)
	for _, status := range []models.Status{models.StatusResponded, models.StatusClosed} {
		if f.Status != "" {
			if f.Status == string(status) {
				responded = total
			}
			continue
		}
		sf := f
		sf.Status = string(status)
		count, err := s.store.Count(ctx, sf)
		if err != nil {
			return nil, unavailable(err)
		}
		responded += count
	}
	responseRate := int64(0)
	if total > 0 {
		responseRate = int64(math.Round(float64(responded) / float64(total) * 100))
	}

	categories, err := s.store.GroupCount(ctx, f, "category", false, 0)
	if err != nil {
		return nil, unavailable(err)
	}
	topCategories := make([]CategoryCount, 0, len(categories))
	for _, c := range categories {
		topCategories = append(topCategories, CategoryCount{Category: c.Name, Count: c.Count})
	}

	tags, err := s.store.GroupCount(ctx, f, "tags", true, 10)
	if err != nil {
		return nil, unavailable(err)
	}
	topTags := make([]TagCount, 0, len(tags))
	for _, t := range tags {
		topTags = append(topTags, TagCount{Tag: t.Name, Count: t.Count})
	}

	since := s.clock.Now().AddDate(0, 0, -dashboardTrendDays)
	records, err := s.store.FindCreatedSince(ctx, f, since)
	if err != nil {
		return nil, unavailable(err)
	}
	buckets := bucketByDay(records)
	trend := make([]TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		trend = append(trend, TrendPoint{
			Date:  b.day.Format("2006-01-02"),
			Count: b.count,
			Sentiment: SentimentBreakdown{
				Positive: b.positive,
				Neutral:  b.neutral,
				Negative: b.negative,
			},
		})
	}

	return &DashboardStats{
		Total:         total,
		Positive:      bySentiment[models.SentimentPositive],
		Neutral:       bySentiment[models.SentimentNeutral],
		Negative:      bySentiment[models.SentimentNegative],
		ResponseRate:  responseRate,
		TopCategories: topCategories,
		TopTags:       topTags,
		Trend:         trend,
	}, nil
}

// CategoryDistribution returns every category with its record count,
// descending, uncapped.
func (s *Service) CategoryDistribution(ctx context.Context) ([]NameValue, error) {
	categories, err := s.store.GroupCount(ctx, models.Filter{}, "category", false, 0)
	if err != nil {
		return nil, unavailable(err)
	}
	distribution := make([]NameValue, 0, len(categories))
	for _, c := range categories {
		distribution = append(distribution, NameValue{Name: c.Name, Value: c.Count})
	}
	return distribution, nil
}

// SentimentTrends buckets the records of a trailing window by calendar day
// and counts sentiment labels per bucket. The period selects the window
// length only — buckets are always one day. Labels render as a 12-hour
// clock time for "day" and as a weekday short name otherwise, matching what
// the trend charts expect.
func (s *Service) SentimentTrends(ctx context.Context, period string) ([]TrendBucket, error) {
	now := s.clock.Now()
	var since time.Time
	switch period {
	case "day":
		since = now.AddDate(0, 0, -1)
	case "month":
		since = now.AddDate(0, -1, 0)
	default:
		since = now.AddDate(0, 0, -7)
	}

	records, err := s.store.FindCreatedSince(ctx, models.Filter{}, since)
	if err != nil {
		return nil, unavailable(err)
	}

	buckets := bucketByDay(records)
	trends := make([]TrendBucket, 0, len(buckets))
	for _, b := range buckets {
		name := b.day.Format("Mon")
		if period == "day" {
			name = b.day.Format("3 PM")
		}
		trends = append(trends, TrendBucket{
			Name:     name,
			Positive: b.positive,
			Neutral:  b.neutral,
			Negative: b.negative,
		})
	}
	return trends, nil
}

type dayBucket struct {
	day                                time.Time
	count, positive, neutral, negative int64
}

// bucketByDay groups records by the UTC calendar date of createdAt and
// returns the buckets sorted ascending. Dates never repeat in the output.
func bucketByDay(records []models.Feedback) []dayBucket {
	byDay := make(map[time.Time]*dayBucket)
	for _, r := range records {
		created := r.CreatedAt.UTC()
		day := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, time.UTC)
		b, ok := byDay[day]
		if !ok {
			b = &dayBucket{day: day}
			byDay[day] = b
		}
		b.count++
		switch r.Sentiment {
		case models.SentimentPositive:
			b.positive++
		case models.SentimentNegative:
			b.negative++
		default:
			b.neutral++
		}
	}

	buckets := make([]dayBucket, 0, len(byDay))
	for _, b := range byDay {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].day.Before(buckets[j].day)
	})
	return buckets
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
