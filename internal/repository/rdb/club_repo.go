package rdb

import (
	"context"
	"time"

	"clubsphere/internal/model"
	"clubsphere/internal/repository"

	"gorm.io/gorm"
)

type ClubRepository struct {
	DB *gorm.DB
}

func NewClubRepository(db *gorm.DB) *ClubRepository {
	return &ClubRepository{DB: db}
}

func (r *ClubRepository) Create(ctx context.Context, c *model.Club) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return translate(r.DB.WithContext(ctx).Create(c).Error)
}

func (r *ClubRepository) GetByID(ctx context.Context, id string) (*model.Club, error) {
	var club model.Club
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&club).Error; err != nil {
		return nil, translate(err)
	}
	return &club, nil
}

func (r *ClubRepository) GetByName(ctx context.Context, name string) (*model.Club, error) {
	var club model.Club
	if err := r.DB.WithContext(ctx).Where("club_name = ?", name).First(&club).Error; err != nil {
		return nil, translate(err)
	}
	return &club, nil
}

func (r *ClubRepository) GetMany(ctx context.Context, ids []string) ([]model.Club, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []model.Club
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, translate(err)
}

func (r *ClubRepository) List(ctx context.Context, f repository.ClubFilter) ([]model.Club, error) {
	q := r.DB.WithContext(ctx).Model(&model.Club{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ManagerEmail != "" {
		q = q.Where("manager_email = ?", f.ManagerEmail)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		q = q.Where("LOWER(club_name) LIKE ? ESCAPE '!'", containsPattern(f.Search))
	}

	var list []model.Club
	err := q.Order(clubOrder(f.Sort)).Find(&list).Error
	return list, translate(err)
}

func clubOrder(s repository.ClubSort) string {
	switch s {
	case repository.ClubOldest:
		return "created_at ASC, id ASC"
	case repository.ClubFeeAsc:
		return "membership_fee ASC, created_at DESC"
	case repository.ClubFeeDesc:
		return "membership_fee DESC, created_at DESC"
	}
	return "created_at DESC, id DESC"
}

// ListAfter pages through every club in id order; the reconciler walks it in batches.
func (r *ClubRepository) ListAfter(ctx context.Context, lastID string, limit int) ([]model.Club, error) {
	var list []model.Club
	err := r.DB.WithContext(ctx).
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(limit).
		Find(&list).Error
	return list, translate(err)
}

// Update writes every editable column. members_count is owned by the membership paths and the reconciler.
func (r *ClubRepository) Update(ctx context.Context, c *model.Club) error {
	c.UpdatedAt = time.Now()
	return affected(r.DB.WithContext(ctx).Model(c).
		Select("club_name", "description", "category", "location", "banner_image",
			"membership_fee", "status", "updated_at").
		Updates(c))
}

func (r *ClubRepository) Delete(ctx context.Context, id string) error {
	tx := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Club{})
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ClubRepository) CountByStatus(ctx context.Context) (map[model.ClubStatus]int64, error) {
	var rows []struct {
		Status model.ClubStatus
		N      int64
	}
	err := r.DB.WithContext(ctx).Model(&model.Club{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	counts := make(map[model.ClubStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

func (r *ClubRepository) SetMembersCount(ctx context.Context, id string, n int64) error {
	return translate(r.DB.WithContext(ctx).Model(&model.Club{}).
		Where("id = ?", id).
		UpdateColumn("members_count", n).Error)
}

// adjustMembers shifts a club's members_count by delta inside tx, never below zero.
func adjustMembers(tx *gorm.DB, clubID string, delta int64) error {
	expr := gorm.Expr("members_count + ?", delta)
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN members_count + ? > 0 THEN members_count + ? ELSE 0 END", delta, delta)
	}
	return tx.Model(&model.Club{}).
		Where("id = ?", clubID).
		UpdateColumn("members_count", expr).Error
}
