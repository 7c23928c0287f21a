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

// MembershipRepository keeps clubs.membersCount in step with $inc after each status change.
// The partial unique index on active memberships rejects a second active row.
type MembershipRepository struct {
	Coll  *mongo.Collection
	Clubs *mongo.Collection
}

func NewMembershipRepository(db *mongo.Database) *MembershipRepository {
	return &MembershipRepository{
		Coll:  db.Collection(MembershipsCollection),
		Clubs: db.Collection(ClubsCollection),
	}
}

func (r *MembershipRepository) Activate(ctx context.Context, m *model.Membership) error {
	now := time.Now().UTC()
	if m.ID == "" {
		m.ID = newID()
		m.Status = model.MembershipActive
		stamp(&m.JoinedAt, &m.UpdatedAt)
		if _, err := r.Coll.InsertOne(ctx, m); err != nil {
			return translate(err)
		}
	} else {
		res, err := r.Coll.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: m.ID}, {Key: "status", Value: model.MembershipPendingPayment}},
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "status", Value: model.MembershipActive},
				{Key: "expiresAt", Value: m.ExpiresAt},
				{Key: "updatedAt", Value: now},
			}}})
		if err != nil {
			return translate(err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrNotFound
		}
		m.Status = model.MembershipActive
		m.UpdatedAt = now
	}
	return adjustMembers(ctx, r.Clubs, m.ClubID, +1)
}

func (r *MembershipRepository) CreatePending(ctx context.Context, m *model.Membership) error {
	if m.ID == "" {
		m.ID = newID()
	}
	m.Status = model.MembershipPendingPayment
	stamp(&m.JoinedAt, &m.UpdatedAt)
	_, err := r.Coll.InsertOne(ctx, m)
	return translate(err)
}

func (r *MembershipRepository) Terminate(ctx context.Context, id string) error {
	var m model.Membership
	err := r.Coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}, {Key: "status", Value: model.MembershipActive}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: model.MembershipExpired},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}}).Decode(&m)
	if err != nil {
		return translate(err)
	}
	return adjustMembers(ctx, r.Clubs, m.ClubID, -1)
}

func (r *MembershipRepository) FindActive(ctx context.Context, email, clubID string) (*model.Membership, error) {
	return findOne[model.Membership](ctx, r.Coll, bson.D{
		{Key: "userEmail", Value: email},
		{Key: "clubId", Value: clubID},
		{Key: "status", Value: model.MembershipActive},
	})
}

func (r *MembershipRepository) FindByPayment(ctx context.Context, paymentID string) (*model.Membership, error) {
	return findOne[model.Membership](ctx, r.Coll, bson.D{{Key: "paymentId", Value: paymentID}})
}

func (r *MembershipRepository) ListByUser(ctx context.Context, email string) ([]model.Membership, error) {
	return findAll[model.Membership](ctx, r.Coll, bson.D{{Key: "userEmail", Value: email}},
		options.Find().SetSort(bson.D{{Key: "joinedAt", Value: -1}}))
}

func (r *MembershipRepository) ListByClub(ctx context.Context, clubID string) ([]model.Membership, error) {
	return findAll[model.Membership](ctx, r.Coll, bson.D{{Key: "clubId", Value: clubID}},
		options.Find().SetSort(bson.D{{Key: "joinedAt", Value: -1}}))
}

func (r *MembershipRepository) ListExpiring(ctx context.Context, t time.Time, limit int) ([]model.Membership, error) {
	return findAll[model.Membership](ctx, r.Coll,
		bson.D{
			{Key: "status", Value: model.MembershipActive},
			{Key: "expiresAt", Value: bson.D{{Key: "$lt", Value: t}}},
		},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(int64(limit)))
}

func (r *MembershipRepository) CountActive(ctx context.Context, scope repository.Scope) (int64, error) {
	filter, ok := withScope(bson.D{{Key: "status", Value: model.MembershipActive}}, scope)
	if !ok {
		return 0, nil
	}
	n, err := r.Coll.CountDocuments(ctx, filter)
	return n, translate(err)
}
