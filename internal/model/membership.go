package model

import "time"

type MembershipStatus string

const (
	MembershipActive         MembershipStatus = "active"
	MembershipExpired        MembershipStatus = "expired"
	MembershipPendingPayment MembershipStatus = "pendingPayment"
)

// MembershipTerm is how long a paid membership stays active after confirmation.
const MembershipTerm = 365 * 24 * time.Hour

type Membership struct {
	ID        string           `gorm:"primaryKey;size:36" bson:"_id" json:"_id"`
	UserEmail string           `gorm:"size:191;not null;index:idx_membership_user_club" bson:"userEmail" json:"userEmail"`
	ClubID    string           `gorm:"size:36;not null;index:idx_membership_user_club;index" bson:"clubId" json:"clubId"`
	Status    MembershipStatus `gorm:"size:16;not null;default:active;index" bson:"status" json:"status"`
	PaymentID string           `gorm:"size:191;index" bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	ExpiresAt *time.Time       `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	JoinedAt  time.Time        `gorm:"autoCreateTime" bson:"joinedAt" json:"joinedAt"`
	UpdatedAt time.Time        `bson:"updatedAt" json:"updatedAt"`
}
