package model

import "time"

type Event struct {
	ID           string    `gorm:"primaryKey;size:36" bson:"_id" json:"_id"`
	ClubID       string    `gorm:"size:36;not null;index" bson:"clubId" json:"clubId"`
	Title        string    `gorm:"size:191;not null" bson:"title" json:"title"`
	Description  string    `gorm:"type:text;not null" bson:"description" json:"description"`
	EventDate    time.Time `gorm:"not null;index" bson:"eventDate" json:"eventDate"`
	Location     string    `gorm:"size:191;not null" bson:"location" json:"location"`
	IsPaid       bool      `gorm:"not null;default:false" bson:"isPaid" json:"isPaid"`
	EventFee     float64   `gorm:"not null;default:0" bson:"eventFee" json:"eventFee"`
	MaxAttendees int       `gorm:"not null;default:0" bson:"maxAttendees,omitempty" json:"maxAttendees,omitempty"`
	BannerImage  string    `gorm:"size:512" bson:"bannerImage,omitempty" json:"bannerImage,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RequiresPayment reports whether registration has to go through the payment flow.
func (e *Event) RequiresPayment() bool {
	return e.IsPaid && e.EventFee > 0
}

type EventSummary struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	EventDate time.Time `json:"eventDate"`
	Location  string    `json:"location"`
}

func (e *Event) Summary() *EventSummary {
	return &EventSummary{ID: e.ID, Title: e.Title, EventDate: e.EventDate, Location: e.Location}
}
