package feedbacks

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xyz-asif/medcamp/internal/database"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection(database.FeedbacksCollection)

	_, _ = collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})

	return &Repository{collection: collection}
}

func (r *Repository) Create(ctx context.Context, f *Feedback) error {
	f.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, f)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		f.ID = oid
	}
	return nil
}

// List returns every feedback, newest first.
func (r *Repository) List(ctx context.Context) ([]Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find feedbacks: %w", err)
	}
	defer cursor.Close(ctx)

	feedbacks := []Feedback{}
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, fmt.Errorf("decode feedbacks: %w", err)
	}
	return feedbacks, nil
}
