package model

import "time"

type PaymentType string

const (
	PaymentMembership PaymentType = "membership"
	PaymentEvent      PaymentType = "event"
)

// Provider-reported statuses the service tests for; any other provider value is stored verbatim.
const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
)

const DefaultCurrency = "usd"

type Payment struct {
	ID                string      `gorm:"primaryKey;size:36" bson:"_id" json:"_id"`
	UserEmail         string      `gorm:"size:191;not null;index" bson:"userEmail" json:"userEmail"`
	Amount            float64     `gorm:"not null" bson:"amount" json:"amount"`
	Currency          string      `gorm:"size:8;not null;default:usd" bson:"currency" json:"currency"`
	Type              PaymentType `gorm:"size:16;not null" bson:"type" json:"type"`
	ClubID            string      `gorm:"size:36;index" bson:"clubId,omitempty" json:"clubId,omitempty"`
	EventID           string      `gorm:"size:36" bson:"eventId,omitempty" json:"eventId,omitempty"`
	ProviderReference string      `gorm:"uniqueIndex;size:191;not null" bson:"providerReference" json:"providerReference"`
	Status            string      `gorm:"size:32;not null;index" bson:"status" json:"status"`
	CreatedAt         time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// MinorUnits converts a decimal amount to the provider's smallest currency unit.
func MinorUnits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}
