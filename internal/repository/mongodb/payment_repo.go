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

type PaymentRepository struct {
	Coll *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{Coll: db.Collection(PaymentsCollection)}
}

func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	if p.ID == "" {
		p.ID = newID()
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	_, err := r.Coll.InsertOne(ctx, p)
	return translate(err)
}

func (r *PaymentRepository) GetByReference(ctx context.Context, ref string) (*model.Payment, error) {
	return findOne[model.Payment](ctx, r.Coll, bson.D{{Key: "providerReference", Value: ref}})
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.Coll.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: status},
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

func (r *PaymentRepository) ListByUser(ctx context.Context, email string) ([]model.Payment, error) {
	return findAll[model.Payment](ctx, r.Coll, bson.D{{Key: "userEmail", Value: email}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *PaymentRepository) List(ctx context.Context, scope repository.Scope) ([]model.Payment, error) {
	filter, ok := withScope(bson.D{}, scope)
	if !ok {
		return []model.Payment{}, nil
	}
	return findAll[model.Payment](ctx, r.Coll, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *PaymentRepository) SumSucceeded(ctx context.Context, scope repository.Scope) (float64, error) {
	filter, ok := withScope(bson.D{{Key: "status", Value: model.PaymentSucceeded}}, scope)
	if !ok {
		return 0, nil
	}
	return sumField(ctx, r.Coll, filter, "amount")
}
