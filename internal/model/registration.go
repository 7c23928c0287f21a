package model

import "time"

type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationCancelled  RegistrationStatus = "cancelled"
)

type EventRegistration struct {
	ID           string             `gorm:"primaryKey;size:36" bson:"_id" json:"_id"`
	EventID      string             `gorm:"size:36;not null;index:idx_registration_user_event;index" bson:"eventId" json:"eventId"`
	UserEmail    string             `gorm:"size:191;not null;index:idx_registration_user_event" bson:"userEmail" json:"userEmail"`
	ClubID       string             `gorm:"size:36;not null;index" bson:"clubId" json:"clubId"`
	Status       RegistrationStatus `gorm:"size:16;not null;default:registered" bson:"status" json:"status"`
	PaymentID    string             `gorm:"size:191" bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	RegisteredAt time.Time          `gorm:"autoCreateTime" bson:"registeredAt" json:"registeredAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
