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

type ClubRepository struct {
	Coll *mongo.Collection
}

func NewClubRepository(db *mongo.Database) *ClubRepository {
	return &ClubRepository{Coll: db.Collection(ClubsCollection)}
}

func (r *ClubRepository) Create(ctx context.Context, c *model.Club) error {
	if c.ID == "" {
		c.ID = newID()
	}
	stamp(&c.CreatedAt, &c.UpdatedAt)
	_, err := r.Coll.InsertOne(ctx, c)
	return translate(err)
}

func (r *ClubRepository) GetByID(ctx context.Context, id string) (*model.Club, error) {
	return findOne[model.Club](ctx, r.Coll, bson.D{{Key: "_id", Value: id}})
}

func (r *ClubRepository) GetByName(ctx context.Context, name string) (*model.Club, error) {
	return findOne[model.Club](ctx, r.Coll, bson.D{{Key: "clubName", Value: name}})
}

func (r *ClubRepository) GetMany(ctx context.Context, ids []string) ([]model.Club, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return findAll[model.Club](ctx, r.Coll, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
}

func (r *ClubRepository) List(ctx context.Context, f repository.ClubFilter) ([]model.Club, error) {
	return findAll[model.Club](ctx, r.Coll, clubFilter(f), options.Find().SetSort(clubSort(f.Sort)))
}

func (r *ClubRepository) ListAfter(ctx context.Context, lastID string, limit int) ([]model.Club, error) {
	return findAll[model.Club](ctx, r.Coll,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$gt", Value: lastID}}}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(int64(limit)))
}

// Update sets the editable fields. membersCount is left to the membership paths.
func (r *ClubRepository) Update(ctx context.Context, c *model.Club) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := r.Coll.UpdateByID(ctx, c.ID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "clubName", Value: c.ClubName},
		{Key: "description", Value: c.Description},
		{Key: "category", Value: c.Category},
		{Key: "location", Value: c.Location},
		{Key: "bannerImage", Value: c.BannerImage},
		{Key: "membershipFee", Value: c.MembershipFee},
		{Key: "status", Value: c.Status},
		{Key: "updatedAt", Value: c.UpdatedAt},
	}}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ClubRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.Coll, id)
}

func (r *ClubRepository) CountByStatus(ctx context.Context) (map[model.ClubStatus]int64, error) {
	cur, err := r.Coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, translate(err)
	}
	var rows []struct {
		Status model.ClubStatus `bson:"_id"`
		N      int64            `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, translate(err)
	}
	counts := make(map[model.ClubStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

func (r *ClubRepository) SetMembersCount(ctx context.Context, id string, n int64) error {
	_, err := r.Coll.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: bson.D{{Key: "membersCount", Value: n}}}})
	return translate(err)
}

// adjustMembers applies delta with $inc. Decrements only match while the count is positive.
func adjustMembers(ctx context.Context, clubs *mongo.Collection, clubID string, delta int64) error {
	filter := bson.D{{Key: "_id", Value: clubID}}
	if delta < 0 {
		filter = append(filter, bson.E{Key: "membersCount", Value: bson.D{{Key: "$gte", Value: -delta}}})
	}
	_, err := clubs.UpdateOne(ctx, filter, bson.D{{Key: "$inc", Value: bson.D{{Key: "membersCount", Value: delta}}}})
	return translate(err)
}
