package camps

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xyz-asif/medcamp/internal/database"
	apperrors "github.com/xyz-asif/medcamp/pkg/errors"
)

var sortOrders = map[string]bson.D{
	SortMostRegistered: {{Key: "participantCount", Value: -1}},
	SortFees:           {{Key: "fees", Value: 1}},
	SortAlphabetical:   {{Key: "name", Value: 1}},
}

// Repository handles database interactions for camps
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection(database.CampsCollection)

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "participantCount", Value: -1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	})

	return &Repository{collection: collection}
}

// List returns camps whose name contains search (case-insensitive). Unknown sortBy keeps store order.
func (r *Repository) List(ctx context.Context, search, sortBy string) ([]Camp, error) {
	filter := bson.M{}
	if search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}

	opts := options.Find()
	if order, ok := sortOrders[sortBy]; ok {
		opts.SetSort(order)
	}

	return r.find(ctx, filter, opts)
}

// Popular returns the limit camps with the highest participant count.
func (r *Repository) Popular(ctx context.Context, limit int) ([]Camp, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "participantCount", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	return r.find(ctx, bson.M{}, opts)
}

// GetByID returns nil, nil when no camp has the id.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*Camp, error) {
	var camp Camp
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&camp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find camp: %w", err)
	}
	return &camp, nil
}

func (r *Repository) Create(ctx context.Context, camp *Camp) error {
	now := time.Now()
	camp.CreatedAt = now
	camp.UpdatedAt = now
	camp.ParticipantCount = 0

	result, err := r.collection.InsertOne(ctx, camp)
	if err != nil {
		return fmt.Errorf("insert camp: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		camp.ID = oid
	}
	return nil
}

// Update merges fields into the camp with $set.
func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update camp: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete camp: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// IncrementParticipants adjusts the counter atomically. A decrement never takes it below zero.
func (r *Repository) IncrementParticipants(ctx context.Context, id primitive.ObjectID, delta int) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["participantCount"] = bson.M{"$gte": -delta}
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"participantCount": delta},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("increment participants: %w", err)
	}
	if result.MatchedCount == 0 && delta > 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]Camp, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find camps: %w", err)
	}
	defer cursor.Close(ctx)

	camps := []Camp{}
	if err := cursor.All(ctx, &camps); err != nil {
		return nil, fmt.Errorf("decode camps: %w", err)
	}
	if camps == nil {
		camps = []Camp{}
	}
	return camps, nil
}
