package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// indexPlan lists the indexes per collection. Unique indexes back the
// business keys; expires_at on idempotency is a TTL index so stale keys are
// reaped by the server.
func indexPlan() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		CollMeals: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "likes", Value: -1}}},
			{Keys: bson.D{{Key: "review_count", Value: -1}}},
			{Keys: bson.D{{Key: "price", Value: 1}}},
			{Keys: bson.D{{Key: "reviews.id", Value: 1}}},
			{Keys: bson.D{{Key: "reviews.email", Value: 1}}},
		},
		CollRequests: {
			{
				Keys:    bson.D{{Key: "user_email", Value: 1}, {Key: "requested_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("ux_request_user_meal"),
			},
		},
		CollUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollPackages: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollPayments: {
			{Keys: bson.D{{Key: "transaction_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		CollIdempotency: {
			{
				Keys:    bson.D{{Key: "scope", Value: 1}, {Key: "subject", Value: 1}, {Key: "key", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("ux_scope_subject_key"),
			},
			{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
	}
}

// EnsureIndexes creates every index in indexPlan. Existing indexes with the
// same definition are left alone by the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range indexPlan() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
