package rdb

import (
	"context"
	"time"

	"clubsphere/internal/model"
	"clubsphere/internal/repository"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return translate(r.DB.WithContext(ctx).Create(p).Error)
}

func (r *PaymentRepository) GetByReference(ctx context.Context, ref string) (*model.Payment, error) {
	var p model.Payment
	if err := r.DB.WithContext(ctx).Where("provider_reference = ?", ref).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return affected(r.DB.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}))
}

func (r *PaymentRepository) ListByUser(ctx context.Context, email string) ([]model.Payment, error) {
	var list []model.Payment
	err := r.DB.WithContext(ctx).Where("user_email = ?", email).Order("created_at DESC").Find(&list).Error
	return list, translate(err)
}

func (r *PaymentRepository) List(ctx context.Context, scope repository.Scope) ([]model.Payment, error) {
	q, ok := scoped(r.DB.WithContext(ctx).Model(&model.Payment{}), "club_id", scope)
	if !ok {
		return []model.Payment{}, nil
	}
	var list []model.Payment
	err := q.Order("created_at DESC").Find(&list).Error
	return list, translate(err)
}

func (r *PaymentRepository) SumSucceeded(ctx context.Context, scope repository.Scope) (float64, error) {
	q, ok := scoped(r.DB.WithContext(ctx).Model(&model.Payment{}).Where("status = ?", model.PaymentSucceeded), "club_id", scope)
	if !ok {
		return 0, nil
	}
	var total float64
	if err := q.Select("COALESCE(SUM(amount), 0)").Row().Scan(&total); err != nil {
		return 0, translate(err)
	}
	return total, nil
}
