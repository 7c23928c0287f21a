// Package mongodb implements the stores on a MongoDB database.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubsphere/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection         = "users"
	ClubsCollection         = "clubs"
	EventsCollection        = "events"
	MembershipsCollection   = "memberships"
	RegistrationsCollection = "eventregistrations"
	PaymentsCollection      = "payments"
)

// Connect dials uri, pings the server and ensures the indexes the stores rely on.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongodb: connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	db := client.Database(database)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, db, nil
}

// EnsureIndexes creates the unique indexes. The partial ones enforce at most one active
// membership per (user, club) and one registered entry per (user, event).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ClubsCollection: {
			{Keys: bson.D{{Key: "clubName", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "managerEmail", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		EventsCollection: {
			{Keys: bson.D{{Key: "clubId", Value: 1}, {Key: "eventDate", Value: 1}}},
		},
		MembershipsCollection: {
			{
				Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "clubId", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.D{{Key: "status", Value: "active"}}).
					SetName("uniq_active_membership"),
			},
			{Keys: bson.D{{Key: "clubId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "paymentId", Value: 1}}},
		},
		RegistrationsCollection: {
			{
				Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "eventId", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.D{{Key: "status", Value: "registered"}}).
					SetName("uniq_registered_entry"),
			},
		},
		PaymentsCollection: {
			{Keys: bson.D{{Key: "providerReference", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongodb: indexes on %s: %w", name, err)
		}
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	}
	return err
}

// stamp fills creation and update times the way gorm does for the SQL stores.
func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, translate(err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// sumField runs a $match/$group pipeline that totals field.
func sumField(ctx context.Context, coll *mongo.Collection, match bson.D, field string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + field}}},
		}}},
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, translate(err)
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, translate(err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
