package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xyz-asif/medcamp/internal/database"
	apperrors "github.com/xyz-asif/medcamp/pkg/errors"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection(database.PaymentsCollection)

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "transactionId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "paidAt", Value: -1}}},
	})

	return &Repository{collection: collection}
}

// Insert stores the payment. A transactionId seen before yields apperrors.ErrDuplicate.
func (r *Repository) Insert(ctx context.Context, p *Payment) error {
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("transaction %s: %w", p.TransactionID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("insert payment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// GetByTransaction returns nil, nil for an unseen transaction id.
func (r *Repository) GetByTransaction(ctx context.Context, transactionID string) (*Payment, error) {
	var p Payment
	err := r.collection.FindOne(ctx, bson.M{"transactionId": transactionID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &p, nil
}

// ListByEmail returns the payment history newest first.
func (r *Repository) ListByEmail(ctx context.Context, email string) ([]Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "paidAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("find payments: %w", err)
	}
	defer cursor.Close(ctx)

	payments := []Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	return payments, nil
}
