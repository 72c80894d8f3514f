// Package mongostore is the document-database backend. It stores each
// aggregate in its own collection, embeds reviews inside their meal document
// and satisfies the same store contract as the relational repo package.
package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tbourn/go-hostel-backend/internal/domain"
)

// Collection names.
const (
	CollMeals       = "meals"
	CollRequests    = "meal_requests"
	CollUsers       = "users"
	CollPackages    = "packages"
	CollPayments    = "payments"
	CollIdempotency = "idempotency"
)

// ErrNotFound and ErrDuplicate mirror the relational backend's sentinels.
var (
	ErrNotFound  = domain.ErrRecordNotFound
	ErrDuplicate = domain.ErrDuplicateRecord
)

// Store holds one client and the database all collections live in.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to uri, pins the stable server API and verifies the
// deployment answers a ping before returning.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return New(client, database), nil
}

// New wraps an existing client.
func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

func (s *Store) coll(name string) *mongo.Collection { return s.db.Collection(name) }

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client, waiting at most ten seconds for in-flight
// operations.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Migrate creates the indexes the API relies on.
func (s *Store) Migrate(ctx context.Context) error {
	return EnsureIndexes(ctx, s.db)
}

// translate maps driver errors onto the storage-neutral sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}
