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

type UserRepository struct {
	Coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Coll: db.Collection(UsersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	stamp(&user.CreatedAt, &user.UpdatedAt)
	_, err := r.Coll.InsertOne(ctx, user)
	return translate(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, r.Coll, bson.D{{Key: "_id", Value: id}})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, r.Coll, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := r.Coll.UpdateByID(ctx, user.ID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: user.Name},
		{Key: "photoURL", Value: user.PhotoURL},
		{Key: "role", Value: user.Role},
		{Key: "updatedAt", Value: user.UpdatedAt},
	}}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	return findAll[model.User](ctx, r.Coll, bson.D{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.Coll, id)
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.Coll.CountDocuments(ctx, bson.D{})
	return n, translate(err)
}
