package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tbourn/go-hostel-backend/internal/domain"
)

// RecordPayment claims the idempotency key first, then inserts the payment.
// If the payment insert fails the claim is released, so a retry with the same
// key can succeed.
func (s *Store) RecordPayment(ctx context.Context, p *domain.Payment, idem *domain.Idempotency) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()

	if idem != nil {
		idem.ResourceID = p.ID
		if err := s.createIdempotency(ctx, idem); err != nil {
			return err
		}
	}
	if _, err := s.coll(CollPayments).InsertOne(ctx, p); err != nil {
		if idem != nil {
			_, _ = s.coll(CollIdempotency).DeleteOne(context.WithoutCancel(ctx), bson.D{{Key: "_id", Value: idem.ID}})
		}
		return translate(err)
	}
	return nil
}

func (s *Store) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	var p domain.Payment
	if err := s.coll(CollPayments).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) ListPaymentsByEmail(ctx context.Context, email string) ([]domain.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll(CollPayments).Find(ctx, bson.D{{Key: "email", Value: email}}, opts)
	if err != nil {
		return nil, translate(err)
	}
	out := []domain.Payment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) GetIdempotency(ctx context.Context, scope, subject, key string, now time.Time) (*domain.Idempotency, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := s.coll(CollIdempotency).FindOne(ctx, bson.D{
		{Key: "scope", Value: scope},
		{Key: "subject", Value: subject},
		{Key: "key", Value: key},
		{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: now}}},
	}).Decode(&rec)
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// createIdempotency inserts rec after clearing any expired record holding the
// same triple; the TTL monitor only runs about once a minute.
func (s *Store) createIdempotency(ctx context.Context, rec *domain.Idempotency) error {
	now := time.Now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = now
	if rec.ExpiresAt.IsZero() {
		rec.ExpiresAt = now.Add(24 * time.Hour)
	}
	c := s.coll(CollIdempotency)
	if _, err := c.DeleteMany(ctx, bson.D{
		{Key: "scope", Value: rec.Scope},
		{Key: "subject", Value: rec.Subject},
		{Key: "key", Value: rec.Key},
		{Key: "expires_at", Value: bson.D{{Key: "$lte", Value: now}}},
	}); err != nil {
		return translate(err)
	}
	_, err := c.InsertOne(ctx, rec)
	return translate(err)
}
