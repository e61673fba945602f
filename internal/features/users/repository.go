package users

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

// Repository handles database interactions for users
type Repository struct {
	collection *mongo.Collection
}

// NewRepository initializes the repository. The unique email index is what makes
// concurrent first sign-ins collapse into a single record.
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection(database.UsersCollection)

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	})

	return &Repository{collection: collection}
}

// Create inserts a new user. An existing email yields apperrors.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, user *User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s: %w", user.Email, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// GetByEmail returns nil, nil when no user has the email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// RoleOf returns the stored role for email, or "" for an unknown email.
func (r *Repository) RoleOf(ctx context.Context, email string) (string, error) {
	var doc struct {
		Role string `bson:"role"`
	}
	opts := options.FindOne().SetProjection(bson.M{"role": 1})
	err := r.collection.FindOne(ctx, bson.M{"email": email}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", fmt.Errorf("find role: %w", err)
	}
	return doc.Role, nil
}

// List returns one page of users whose name or email contains search.
func (r *Repository) List(ctx context.Context, search string, page pagination.Params) ([]User, int64, error) {
	filter := bson.M{}
	if search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
		filter["$or"] = bson.A{bson.M{"name": pattern}, bson.M{"email": pattern}}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}
	return users, total, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, email string, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
