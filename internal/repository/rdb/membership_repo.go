package rdb

import (
	"context"
	"time"

	"clubsphere/internal/model"
	"clubsphere/internal/repository"

	"gorm.io/gorm"
)

type MembershipRepository struct {
	DB *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{DB: db}
}

// Activate makes m the caller's active membership and bumps the club's members_count in the
// same transaction. A membership without ID is inserted; one with an ID must be pendingPayment
// and is promoted. Returns ErrDuplicate if another active membership exists for (user, club).
func (r *MembershipRepository) Activate(ctx context.Context, m *model.Membership) error {
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.Membership{}).
			Where("user_email = ? AND club_id = ? AND status = ?", m.UserEmail, m.ClubID, model.MembershipActive)
		if m.ID != "" {
			q = q.Where("id <> ?", m.ID)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return repository.ErrDuplicate
		}

		if m.ID == "" {
			m.ID = newID()
			m.Status = model.MembershipActive
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		} else {
			now := time.Now()
			res := tx.Model(&model.Membership{}).
				Where("id = ? AND status = ?", m.ID, model.MembershipPendingPayment).
				Updates(map[string]any{
					"status":     model.MembershipActive,
					"expires_at": m.ExpiresAt,
					"updated_at": now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repository.ErrNotFound
			}
			m.Status = model.MembershipActive
			m.UpdatedAt = now
		}

		return adjustMembers(tx, m.ClubID, +1)
	}))
}

func (r *MembershipRepository) CreatePending(ctx context.Context, m *model.Membership) error {
	if m.ID == "" {
		m.ID = newID()
	}
	m.Status = model.MembershipPendingPayment
	return translate(r.DB.WithContext(ctx).Create(m).Error)
}

// Terminate moves an active membership to expired and releases its seat in members_count.
func (r *MembershipRepository) Terminate(ctx context.Context, id string) error {
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Membership
		if err := tx.Where("id = ? AND status = ?", id, model.MembershipActive).First(&m).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Membership{}).
			Where("id = ? AND status = ?", id, model.MembershipActive).
			Updates(map[string]any{"status": model.MembershipExpired, "updated_at": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return adjustMembers(tx, m.ClubID, -1)
	}))
}

func (r *MembershipRepository) FindActive(ctx context.Context, email, clubID string) (*model.Membership, error) {
	var m model.Membership
	err := r.DB.WithContext(ctx).
		Where("user_email = ? AND club_id = ? AND status = ?", email, clubID, model.MembershipActive).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *MembershipRepository) FindByPayment(ctx context.Context, paymentID string) (*model.Membership, error) {
	var m model.Membership
	if err := r.DB.WithContext(ctx).Where("payment_id = ?", paymentID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *MembershipRepository) ListByUser(ctx context.Context, email string) ([]model.Membership, error) {
	var list []model.Membership
	err := r.DB.WithContext(ctx).Where("user_email = ?", email).Order("joined_at DESC").Find(&list).Error
	return list, translate(err)
}

func (r *MembershipRepository) ListByClub(ctx context.Context, clubID string) ([]model.Membership, error) {
	var list []model.Membership
	err := r.DB.WithContext(ctx).Where("club_id = ?", clubID).Order("joined_at DESC").Find(&list).Error
	return list, translate(err)
}

// ListExpiring returns up to limit active memberships whose term ended before t.
func (r *MembershipRepository) ListExpiring(ctx context.Context, t time.Time, limit int) ([]model.Membership, error) {
	var list []model.Membership
	err := r.DB.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", model.MembershipActive, t).
		Order("id ASC").
		Limit(limit).
		Find(&list).Error
	return list, translate(err)
}

func (r *MembershipRepository) CountActive(ctx context.Context, scope repository.Scope) (int64, error) {
	q, ok := scoped(r.DB.WithContext(ctx).Model(&model.Membership{}).Where("status = ?", model.MembershipActive), "club_id", scope)
	if !ok {
		return 0, nil
	}
	var n int64
	err := q.Count(&n).Error
	return n, translate(err)
}
