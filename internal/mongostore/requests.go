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

func (s *Store) CreateRequest(ctx context.Context, r *domain.MealRequest) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	_, err := s.coll(CollRequests).InsertOne(ctx, r)
	return translate(err)
}

func (s *Store) FindRequest(ctx context.Context, email, requestedID string) (*domain.MealRequest, error) {
	var r domain.MealRequest
	err := s.coll(CollRequests).FindOne(ctx, bson.D{
		{Key: "user_email", Value: email},
		{Key: "requested_id", Value: requestedID},
	}).Decode(&r)
	if err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *Store) ListRequests(ctx context.Context, f query.Filter, offset, limit int) ([]domain.MealRequest, error) {
	out := []domain.MealRequest{}
	if err := s.findWindow(ctx, CollRequests, f, offset, limit, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CountRequests(ctx context.Context, f query.Filter) (int64, error) {
	n, err := s.coll(CollRequests).CountDocuments(ctx, renderFilter(f))
	return n, translate(err)
}

func (s *Store) UpdateRequest(ctx context.Context, id string, changes map[string]any) (*domain.MealRequest, error) {
	var out domain.MealRequest
	err := s.coll(CollRequests).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: setDoc(changes)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (s *Store) DeleteRequest(ctx context.Context, id string) error {
	res, err := s.coll(CollRequests).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// findWindow runs a filtered, sorted, windowed find on coll into out.
func (s *Store) findWindow(ctx context.Context, coll string, f query.Filter, offset, limit int, out any) error {
	opts := options.Find().SetSort(renderSort(f.Sort))
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll(coll).Find(ctx, renderFilter(f), opts)
	if err != nil {
		return translate(err)
	}
	return translate(cur.All(ctx, out))
}

// setDoc builds a $set document from changes plus a fresh updated_at.
func setDoc(changes map[string]any) bson.D {
	d := bson.D{{Key: "updated_at", Value: time.Now().UTC()}}
	for k, v := range changes {
		d = append(d, bson.E{Key: k, Value: v})
	}
	return d
}
