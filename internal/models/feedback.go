package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MaxTextLength is the upper bound on feedback text. Longer submissions are
// rejected at the API layer; the classifier truncates instead of failing.
const MaxTextLength = 1000

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusReviewed  Status = "reviewed"
	StatusResponded Status = "responded"
	StatusClosed    Status = "closed"
)

type Source string

const (
	SourceForm   Source = "form"
	SourceEmail  Source = "email"
	SourceSocial Source = "social"
	SourceAPI    Source = "api"
)

// Response is a reply issued against a feedback item. Responses are
// append-only and never reordered.
type Response struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id,omitempty" json:"userId,omitempty"`
	UserName  string    `bson:"user_name,omitempty" json:"userName,omitempty"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Feedback is a classified customer feedback record. Sentiment, score and
// tags are derived by the classifier exactly once, at creation; only status
// and responses change afterwards. CreatedAt is the trend partition key and
// never changes.
type Feedback struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string        `bson:"user_id,omitempty" json:"userId,omitempty"`
	UserName    string        `bson:"user_name,omitempty" json:"userName,omitempty"`
	UserEmail   string        `bson:"user_email,omitempty" json:"userEmail,omitempty"`
	CompanyName string        `bson:"company_name,omitempty" json:"companyName,omitempty"`
	Category    string        `bson:"category" json:"category"`
	Sentiment   Sentiment     `bson:"sentiment" json:"sentiment"`
	Score       float64       `bson:"score" json:"score"`
	Text        string        `bson:"text" json:"text"`
	Source      Source        `bson:"source" json:"source"`
	Tags        []string      `bson:"tags" json:"tags"`
	Status      Status        `bson:"status" json:"status"`
	Responses   []Response    `bson:"responses,omitempty" json:"responses,omitempty"`
	CreatedAt   time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updatedAt"`
}
