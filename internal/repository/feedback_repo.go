package repository

import (
	"context"
	"time"

	"feedback-analyzer-backend/internal/database"
	"feedback-analyzer-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type FeedbackRepo struct {
	collection *mongo.Collection
}

func NewFeedbackRepo() *FeedbackRepo {
	return &FeedbackRepo{
		collection: database.GetCollection("feedbacks"),
	}
}

func (r *FeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	now := time.Now()
	feedback.CreatedAt = now
	feedback.UpdatedAt = now
	if feedback.Status == "" {
		feedback.Status = models.StatusNew
	}
	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return err
	}
	feedback.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *FeedbackRepo) FindByID(ctx context.Context, id string) (*models.Feedback, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		// Malformed IDs cannot match any document
		return nil, nil
	}
	var feedback models.Feedback
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&feedback)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &feedback, nil
}

// Find returns the page of feedback matching the query, sorted and sliced
// per its pagination settings.
func (r *FeedbackRepo) Find(ctx context.Context, q models.ListQuery) ([]models.Feedback, error) {
	q.Normalize()

	order := -1
	if q.SortOrder == "asc" {
		order = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: sortKey(q.SortBy), Value: order}}).
		SetSkip(int64(q.Skip())).
		SetLimit(int64(q.Limit))

	cursor, err := r.collection.Find(ctx, buildFilter(q.Filter), opts)
	if err != nil {
		return nil, err
	}
	var feedback []models.Feedback
	if err := cursor.All(ctx, &feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (r *FeedbackRepo) Count(ctx context.Context, f models.Filter) (int64, error) {
	return r.collection.CountDocuments(ctx, buildFilter(f))
}

// GroupCount ranks the distinct values of a field by document count,
// descending. With unwind set, array fields contribute one count per
// element (a record with three tags feeds three groups). Ties break on the
// value itself, ascending, so rankings are deterministic. A limit of 0
// means no cap.
func (r *FeedbackRepo) GroupCount(ctx context.Context, f models.Filter, field string, unwind bool, limit int64) ([]models.FieldCount, error) {
	pipeline := mongo.Pipeline{}
	if match := buildFilter(f); len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	if unwind {
		pipeline = append(pipeline, bson.D{{Key: "$unwind", Value: "$" + field}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "count", Value: -1},
			{Key: "_id", Value: 1},
		}}},
	)
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var counts []models.FieldCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// FindCreatedSince fetches all matching records created at or after the
// given instant. Used by trend aggregation, which buckets in memory.
func (r *FeedbackRepo) FindCreatedSince(ctx context.Context, f models.Filter, since time.Time) ([]models.Feedback, error) {
	filter := buildFilter(f)
	filter["created_at"] = bson.M{"$gte": since}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var feedback []models.Feedback
	if err := cursor.All(ctx, &feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (r *FeedbackRepo) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Feedback, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var feedback models.Feedback
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&feedback)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &feedback, nil
}

// AddResponse appends a response and marks the record as responded.
func (r *FeedbackRepo) AddResponse(ctx context.Context, id string, response models.Response) (*models.Feedback, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	update := bson.M{
		"$push": bson.M{"responses": response},
		"$set":  bson.M{"status": models.StatusResponded, "updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var feedback models.Feedback
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&feedback)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &feedback, nil
}

// EnsureIndexes creates the indexes backing the common filters and the
// default createdAt-descending listing order.
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sentiment", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func buildFilter(f models.Filter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Sentiment != "" {
		filter["sentiment"] = f.Sentiment
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Source != "" {
		filter["source"] = f.Source
	}
	if f.Search != "" {
		regex := bson.M{"$regex": f.Search, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"text": regex},
			bson.M{"user_name": regex},
			bson.M{"company_name": regex},
		}
	}
	return filter
}

// sortKey maps the API sort field names onto the stored document keys.
func sortKey(field string) string {
	switch field {
	case "createdAt":
		return "created_at"
	case "updatedAt":
		return "updated_at"
	case "userName":
		return "user_name"
	case "companyName":
		return "company_name"
	case "score", "status", "sentiment", "category", "source", "text":
		return field
	default:
		return "created_at"
	}
}
