package mongodb

import (
	"context"
	"fmt"
	"time"

	"clubsphere/internal/model"
	"clubsphere/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RegistrationRepository struct {
	Coll *mongo.Collection
}

func NewRegistrationRepository(db *mongo.Database) *RegistrationRepository {
	return &RegistrationRepository{Coll: db.Collection(RegistrationsCollection)}
}

// Register inserts first and counts after. An insert that lands past capacity is removed again,
// so concurrent writers can never leave more than capacity registered rows.
func (r *RegistrationRepository) Register(ctx context.Context, reg *model.EventRegistration, capacity int) error {
	if reg.ID == "" {
		reg.ID = newID()
	}
	reg.Status = model.RegistrationRegistered
	stamp(&reg.RegisteredAt, &reg.UpdatedAt)
	if _, err := r.Coll.InsertOne(ctx, reg); err != nil {
		return translate(err)
	}
	if capacity <= 0 {
		return nil
	}

	// Seats go to whoever registered first.
	n, err := r.Coll.CountDocuments(ctx, bson.D{
		{Key: "eventId", Value: reg.EventID},
		{Key: "status", Value: model.RegistrationRegistered},
		{Key: "registeredAt", Value: bson.D{{Key: "$lte", Value: reg.RegisteredAt}}},
	})
	if err != nil {
		return r.withdraw(ctx, reg.ID, translate(err))
	}
	if n > int64(capacity) {
		return r.withdraw(ctx, reg.ID, repository.ErrFull)
	}
	return nil
}

// withdraw deletes an entry Register could not keep and returns cause, or the delete failure if
// the entry is still stored.
func (r *RegistrationRepository) withdraw(ctx context.Context, id string, cause error) error {
	_, err := r.Coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return withdrawn(cause, err)
}

func withdrawn(cause, deleteErr error) error {
	if deleteErr != nil {
		return fmt.Errorf("mongodb: withdraw registration after %v: %w", cause, deleteErr)
	}
	return cause
}

func (r *RegistrationRepository) Cancel(ctx context.Context, id string) error {
	res, err := r.Coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}, {Key: "status", Value: model.RegistrationRegistered}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: model.RegistrationCancelled},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RegistrationRepository) FindRegistered(ctx context.Context, email, eventID string) (*model.EventRegistration, error) {
	return findOne[model.EventRegistration](ctx, r.Coll, bson.D{
		{Key: "userEmail", Value: email},
		{Key: "eventId", Value: eventID},
		{Key: "status", Value: model.RegistrationRegistered},
	})
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, email string) ([]model.EventRegistration, error) {
	return findAll[model.EventRegistration](ctx, r.Coll, bson.D{{Key: "userEmail", Value: email}},
		options.Find().SetSort(bson.D{{Key: "registeredAt", Value: -1}}))
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]model.EventRegistration, error) {
	return findAll[model.EventRegistration](ctx, r.Coll, bson.D{{Key: "eventId", Value: eventID}},
		options.Find().SetSort(bson.D{{Key: "registeredAt", Value: -1}}))
}
