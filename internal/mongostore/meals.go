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

func (s *Store) CreateMeal(ctx context.Context, m *domain.Meal) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now
	m.Reviews = []domain.Review{}
	m.ReviewCount = 0
	_, err := s.coll(CollMeals).InsertOne(ctx, m)
	return translate(err)
}

func (s *Store) GetMeal(ctx context.Context, id string) (*domain.Meal, error) {
	var m domain.Meal
	if err := s.coll(CollMeals).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&m); err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *Store) ListMeals(ctx context.Context, f query.Filter, offset, limit int) ([]domain.Meal, error) {
	opts := options.Find().SetSort(renderSort(f.Sort))
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll(CollMeals).Find(ctx, renderFilter(f), opts)
	if err != nil {
		return nil, translate(err)
	}
	out := []domain.Meal{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) CountMeals(ctx context.Context, f query.Filter) (int64, error) {
	n, err := s.coll(CollMeals).CountDocuments(ctx, renderFilter(f))
	return n, translate(err)
}

func (s *Store) DeleteMeal(ctx context.Context, id string) error {
	res, err := s.coll(CollMeals).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SwapLikes(ctx context.Context, id string, from, to domain.LikeState) (bool, error) {
	res, err := s.coll(CollMeals).UpdateOne(ctx, likeFilter(id, from), bson.D{{Key: "$set", Value: bson.D{
		{Key: "likes", Value: to.Likes},
		{Key: "liked", Value: to.Liked},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}})
	if err != nil {
		return false, translate(err)
	}
	return res.MatchedCount == 1, nil
}

func (s *Store) MealsStats(ctx context.Context) (int64, *time.Time, error) {
	c := s.coll(CollMeals)
	n, err := c.CountDocuments(ctx, bson.D{})
	if err != nil || n == 0 {
		return 0, nil, translate(err)
	}
	var row struct {
		UpdatedAt time.Time `bson:"updated_at"`
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetProjection(bson.D{{Key: "updated_at", Value: 1}})
	if err := c.FindOne(ctx, bson.D{}, opts).Decode(&row); err != nil {
		return 0, nil, translate(err)
	}
	return n, &row.UpdatedAt, nil
}

// AddReview pushes r onto the meal's embedded reviews. Array order is the
// append order; Position is not persisted and is set on r from the updated
// review count.
func (s *Store) AddReview(ctx context.Context, mealID string, r *domain.Review) error {
	now := time.Now().UTC()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.MealID = mealID
	r.CreatedAt = now

	var after struct {
		ReviewCount int `bson:"review_count"`
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.D{{Key: "review_count", Value: 1}})
	err := s.coll(CollMeals).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: mealID}},
		bson.D{
			{Key: "$push", Value: bson.D{{Key: "reviews", Value: r}}},
			{Key: "$inc", Value: bson.D{{Key: "review_count", Value: 1}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now}}},
		},
		opts,
	).Decode(&after)
	if err != nil {
		return translate(err)
	}
	r.Position = after.ReviewCount - 1
	return nil
}

func (s *Store) DeleteReview(ctx context.Context, reviewID string) error {
	res, err := s.coll(CollMeals).UpdateOne(ctx,
		bson.D{{Key: "reviews.id", Value: reviewID}},
		bson.D{
			{Key: "$pull", Value: bson.D{{Key: "reviews", Value: bson.D{{Key: "id", Value: reviewID}}}}},
			{Key: "$inc", Value: bson.D{{Key: "review_count", Value: -1}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now().UTC()}}},
		},
	)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
