package rdb

import (
	"context"
	"time"

	"clubsphere/internal/model"
	"clubsphere/internal/repository"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	if e.ID == "" {
		e.ID = newID()
	}
	return translate(r.DB.WithContext(ctx).Create(e).Error)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

func (r *EventRepository) GetMany(ctx context.Context, ids []string) ([]model.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []model.Event
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, translate(err)
}

func (r *EventRepository) List(ctx context.Context, f repository.EventFilter) ([]model.Event, error) {
	q := r.DB.WithContext(ctx).Model(&model.Event{})
	if f.ClubID != "" {
		q = q.Where("club_id = ?", f.ClubID)
	}
	if f.Search != "" {
		q = q.Where("LOWER(title) LIKE ? ESCAPE '!'", containsPattern(f.Search))
	}
	var list []model.Event
	err := q.Order(eventOrder(f.Sort)).Find(&list).Error
	return list, translate(err)
}

func eventOrder(s repository.EventSort) string {
	switch s {
	case repository.EventNewest:
		return "created_at DESC, id DESC"
	case repository.EventOldest:
		return "created_at ASC, id ASC"
	case repository.EventFeeAsc:
		return "event_fee ASC, event_date ASC"
	case repository.EventFeeDesc:
		return "event_fee DESC, event_date ASC"
	}
	return "event_date ASC, id ASC"
}

func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	e.UpdatedAt = time.Now()
	return affected(r.DB.WithContext(ctx).Model(e).
		Select("title", "description", "event_date", "location", "is_paid", "event_fee",
			"max_attendees", "banner_image", "updated_at").
		Updates(e))
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tx := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Event{})
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Count(ctx context.Context, scope repository.Scope) (int64, error) {
	q, ok := scoped(r.DB.WithContext(ctx).Model(&model.Event{}), "club_id", scope)
	if !ok {
		return 0, nil
	}
	var n int64
	err := q.Count(&n).Error
	return n, translate(err)
}
