// Package classifier assigns a sentiment label, a confidence score and a set
// of topical categories to free-text feedback. It is a deterministic
// keyword-table heuristic, not a learned model: the same text always yields
// the same result, and classification never fails — any input degrades to
// the neutral fallback at worst.
package classifier

import (
	"strings"

	"feedback-analyzer-backend/internal/models"
)

// FallbackCategory is assigned when no category rule matches.
const FallbackCategory = "General"

var positiveWords = []string{
	"good", "great", "excellent", "awesome", "love", "helpful", "easy", "intuitive",
}

var negativeWords = []string{
	"bad", "poor", "terrible", "awful", "hate", "difficult", "confusing", "slow", "bug",
}

// categoryRules are evaluated in order; every rule with a keyword hit
// contributes its label, so a text can carry multiple categories. The order
// only fixes the label sequence, not membership.
var categoryRules = []struct {
	label    string
	keywords []string
}{
	{"UI/UX", []string{"ui", "interface", "design"}},
	{"Performance", []string{"slow", "fast", "speed"}},
	{"Features", []string{"feature", "functionality"}},
	{"Support", []string{"help", "support", "assistance"}},
	{"Documentation", []string{"document", "manual", "guide"}},
}

// Result is the outcome of classifying one feedback text. Score lives in
// [0,1]: 0.5 is neutral, values above 0.5 are positive and below negative,
// trending toward the extremes with keyword dominance.
type Result struct {
	Sentiment  models.Sentiment
	Score      float64
	Categories []string
}

// Classify scores a feedback text. Indicator words count once per presence
// (membership, not frequency). Input beyond the text length cap is truncated
// rather than rejected.
func Classify(text string) Result {
	if runes := []rune(text); len(runes) > models.MaxTextLength {
		text = string(runes[:models.MaxTextLength])
	}
	lower := strings.ToLower(text)

	positive := countHits(lower, positiveWords)
	negative := countHits(lower, negativeWords)

	result := Result{Sentiment: models.SentimentNeutral, Score: 0.5}
	switch {
	case positive > negative:
		result.Sentiment = models.SentimentPositive
		result.Score = 0.5 + float64(positive)/float64(positive+negative)*0.5
	case negative > positive:
		result.Sentiment = models.SentimentNegative
		result.Score = 0.5 - float64(negative)/float64(positive+negative)*0.5
	}

	for _, rule := range categoryRules {
		if countHits(lower, rule.keywords) > 0 {
			result.Categories = append(result.Categories, rule.label)
		}
	}
	if len(result.Categories) == 0 {
		result.Categories = []string{FallbackCategory}
	}

	return result
}

func countHits(lower string, words []string) int {
	hits := 0
	for _, word := range words {
		if strings.Contains(lower, word) {
			hits++
		}
	}
	return hits
}
