package registrations

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
	"github.com/xyz-asif/medcamp/internal/pkg/pagination"
	apperrors "github.com/xyz-asif/medcamp/pkg/errors"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection(database.RegisteredCampsCollection)

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "campId", Value: 1}, {Key: "participantEmail", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "participantEmail", Value: 1}, {Key: "createdAt", Value: -1}}},
	})

	return &Repository{collection: collection}
}

// Create inserts the registration. A second registration for the same camp and email
// yields apperrors.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, reg *RegisteredCamp) error {
	reg.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, reg)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("registration %s/%s: %w", reg.CampID.Hex(), reg.ParticipantEmail, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("insert registration: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reg.ID = oid
	}
	return nil
}

// GetByID returns nil, nil when missing.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*RegisteredCamp, error) {
	var reg RegisteredCamp
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return &reg, nil
}

// ListByEmail returns a participant's registrations, newest first, optionally filtered by camp name.
func (r *Repository) ListByEmail(ctx context.Context, email, search string) ([]RegisteredCamp, error) {
	filter := bson.M{"participantEmail": email}
	if search != "" {
		filter["campName"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, filter, opts)
}

// List returns one page of all registrations matching search on camp or participant name.
func (r *Repository) List(ctx context.Context, search string, page pagination.Params) ([]RegisteredCamp, int64, error) {
	filter := bson.M{}
	if search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
		filter["$or"] = bson.A{bson.M{"campName": pattern}, bson.M{"participantName": pattern}}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count registrations: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	regs, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

func (r *Repository) Confirm(ctx context.Context, id primitive.ObjectID) error {
	return r.setStatus(ctx, id, "confirmationStatus", ConfirmationConfirmed)
}

// MarkPaid is idempotent: an already paid registration still matches.
func (r *Repository) MarkPaid(ctx context.Context, id primitive.ObjectID) error {
	return r.setStatus(ctx, id, "paymentStatus", PaymentPaid)
}

func (r *Repository) setStatus(ctx context.Context, id primitive.ObjectID, field, value string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("set %s: %w", field, err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]RegisteredCamp, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find registrations: %w", err)
	}
	defer cursor.Close(ctx)

	regs := []RegisteredCamp{}
	if err := cursor.All(ctx, &regs); err != nil {
		return nil, fmt.Errorf("decode registrations: %w", err)
	}
	return regs, nil
}
