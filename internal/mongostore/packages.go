package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tbourn/go-hostel-backend/internal/domain"
)

func (s *Store) ListPackages(ctx context.Context) ([]domain.Package, error) {
	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}, {Key: "name", Value: 1}})
	cur, err := s.coll(CollPackages).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, translate(err)
	}
	out := []domain.Package{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) GetPackageByName(ctx context.Context, name string) (*domain.Package, error) {
	var p domain.Package
	if err := s.coll(CollPackages).FindOne(ctx, bson.D{{Key: "name", Value: name}}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) UpsertPackage(ctx context.Context, p *domain.Package) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := s.coll(CollPackages).UpdateOne(ctx,
		bson.D{{Key: "name", Value: p.Name}},
		bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "price", Value: p.Price},
				{Key: "description", Value: p.Description},
				{Key: "features", Value: p.Features},
				{Key: "updated_at", Value: now},
			}},
			{Key: "$setOnInsert", Value: bson.D{
				{Key: "_id", Value: p.ID},
				{Key: "created_at", Value: now},
			}},
		},
		options.Update().SetUpsert(true),
	)
	return translate(err)
}
