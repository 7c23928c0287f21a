package rdb

import (
	"context"
	"time"

	"clubsphere/internal/model"
	"clubsphere/internal/repository"

	"gorm.io/gorm"
)

type RegistrationRepository struct {
	DB *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{DB: db}
}

// Register inserts a registered entry. capacity <= 0 means unlimited.
func (r *RegistrationRepository) Register(ctx context.Context, reg *model.EventRegistration, capacity int) error {
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.EventRegistration{}).
			Where("user_email = ? AND event_id = ? AND status = ?", reg.UserEmail, reg.EventID, model.RegistrationRegistered).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return repository.ErrDuplicate
		}

		if capacity > 0 {
			var taken int64
			if err := tx.Model(&model.EventRegistration{}).
				Where("event_id = ? AND status = ?", reg.EventID, model.RegistrationRegistered).
				Count(&taken).Error; err != nil {
				return err
			}
			if taken >= int64(capacity) {
				return repository.ErrFull
			}
		}

		if reg.ID == "" {
			reg.ID = newID()
		}
		reg.Status = model.RegistrationRegistered
		return tx.Create(reg).Error
	}))
}

func (r *RegistrationRepository) Cancel(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Model(&model.EventRegistration{}).
		Where("id = ? AND status = ?", id, model.RegistrationRegistered).
		Updates(map[string]any{"status": model.RegistrationCancelled, "updated_at": time.Now()})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RegistrationRepository) FindRegistered(ctx context.Context, email, eventID string) (*model.EventRegistration, error) {
	var reg model.EventRegistration
	err := r.DB.WithContext(ctx).
		Where("user_email = ? AND event_id = ? AND status = ?", email, eventID, model.RegistrationRegistered).
		First(&reg).Error
	if err != nil {
		return nil, translate(err)
	}
	return &reg, nil
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, email string) ([]model.EventRegistration, error) {
	var list []model.EventRegistration
	err := r.DB.WithContext(ctx).Where("user_email = ?", email).Order("registered_at DESC").Find(&list).Error
	return list, translate(err)
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]model.EventRegistration, error) {
	var list []model.EventRegistration
	err := r.DB.WithContext(ctx).Where("event_id = ?", eventID).Order("registered_at DESC").Find(&list).Error
	return list, translate(err)
}
