package mongodb

import (
	"context"
	"time"

	"clubsphere/internal/model"
	"clubsphere/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventRepository struct {
	Coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{Coll: db.Collection(EventsCollection)}
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	if e.ID == "" {
		e.ID = newID()
	}
	stamp(&e.CreatedAt, &e.UpdatedAt)
	_, err := r.Coll.InsertOne(ctx, e)
	return translate(err)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return findOne[model.Event](ctx, r.Coll, bson.D{{Key: "_id", Value: id}})
}

func (r *EventRepository) GetMany(ctx context.Context, ids []string) ([]model.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return findAll[model.Event](ctx, r.Coll, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
}

func (r *EventRepository) List(ctx context.Context, f repository.EventFilter) ([]model.Event, error) {
	return findAll[model.Event](ctx, r.Coll, eventFilter(f), options.Find().SetSort(eventSort(f.Sort)))
}

func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	e.UpdatedAt = time.Now().UTC()
	res, err := r.Coll.UpdateByID(ctx, e.ID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: e.Title},
		{Key: "description", Value: e.Description},
		{Key: "eventDate", Value: e.EventDate},
		{Key: "location", Value: e.Location},
		{Key: "isPaid", Value: e.IsPaid},
		{Key: "eventFee", Value: e.EventFee},
		{Key: "maxAttendees", Value: e.MaxAttendees},
		{Key: "bannerImage", Value: e.BannerImage},
		{Key: "updatedAt", Value: e.UpdatedAt},
	}}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.Coll, id)
}

func (r *EventRepository) Count(ctx context.Context, scope repository.Scope) (int64, error) {
	filter, ok := withScope(bson.D{}, scope)
	if !ok {
		return 0, nil
	}
	n, err := r.Coll.CountDocuments(ctx, filter)
	return n, translate(err)
}
