// ================== internal/database/mongo.go ==================
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared by the feature repositories.
const (
	CampsCollection           = "camps"
	UsersCollection           = "users"
	RegisteredCampsCollection = "registeredCamps"
	FeedbacksCollection       = "feedbacks"
	PaymentsCollection        = "payments"
)

// Transactor runs fn as one unit of work. Repositories must use the ctx handed to fn
// so their operations join the unit.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Sequential runs fn directly. Used against standalone servers and in tests.
type Sequential struct{}

func (Sequential) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MongoDB struct {
	Client       *mongo.Client
	Database     *mongo.Database
	transactions bool
}

type Options struct {
	URI          string
	DBName       string
	Transactions bool
	Timeout      time.Duration
	MaxPool      uint64
	MinPool      uint64
}

func Connect(opts Options) (*MongoDB, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxPool == 0 {
		opts.MaxPool = 100
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(opts.URI)
	clientOptions.SetMaxPoolSize(opts.MaxPool)
	clientOptions.SetMinPoolSize(opts.MinPool)
	clientOptions.SetMaxConnIdleTime(30 * time.Second)
	clientOptions.SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoDB{
		Client:       client,
		Database:     client.Database(opts.DBName),
		transactions: opts.Transactions,
	}, nil
}

func (m *MongoDB) Disconnect(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// Ping checks the primary is reachable.
func (m *MongoDB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, readpref.Primary())
}

// WithTransaction executes fn inside a session transaction. The driver retries fn on
// transient errors, so fn must be safe to run more than once.
func (m *MongoDB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.transactions {
		return fn(ctx)
	}

	session, err := m.Client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
