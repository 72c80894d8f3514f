package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/query"
)

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := s.coll(CollUsers).InsertOne(ctx, u)
	return translate(err)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := s.coll(CollUsers).FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context, f query.Filter, offset, limit int) ([]domain.User, error) {
	out := []domain.User{}
	if err := s.findWindow(ctx, CollUsers, f, offset, limit, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CountUsers(ctx context.Context, f query.Filter) (int64, error) {
	n, err := s.coll(CollUsers).CountDocuments(ctx, renderFilter(f))
	return n, translate(err)
}

func (s *Store) UpdateUser(ctx context.Context, email string, changes map[string]any) (*domain.User, error) {
	var out domain.User
	err := s.coll(CollUsers).FindOneAndUpdate(ctx,
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "$set", Value: setDoc(changes)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}
