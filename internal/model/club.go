package model

import "time"

type ClubStatus string

const (
	ClubPending  ClubStatus = "pending"
	ClubApproved ClubStatus = "approved"
	ClubRejected ClubStatus = "rejected"
)

func (s ClubStatus) Valid() bool {
	switch s {
	case ClubPending, ClubApproved, ClubRejected:
		return true
	}
	return false
}

type Club struct {
	ID            string     `gorm:"primaryKey;size:36" bson:"_id" json:"_id"`
	ClubName      string     `gorm:"uniqueIndex;size:191;not null" bson:"clubName" json:"clubName"`
	Description   string     `gorm:"type:text;not null" bson:"description" json:"description"`
	Category      string     `gorm:"size:64;not null;index" bson:"category" json:"category"`
	Location      string     `gorm:"size:191;not null" bson:"location" json:"location"`
	BannerImage   string     `gorm:"size:512" bson:"bannerImage,omitempty" json:"bannerImage,omitempty"`
	MembershipFee float64    `gorm:"not null;default:0" bson:"membershipFee" json:"membershipFee"`
	MembersCount  int64      `gorm:"not null;default:0" bson:"membersCount" json:"membersCount"`
	Status        ClubStatus `gorm:"size:16;not null;default:pending;index" bson:"status" json:"status"`
	ManagerEmail  string     `gorm:"size:191;not null;index" bson:"managerEmail" json:"managerEmail"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// ClubSummary is the slice of a club embedded in membership and registration listings.
type ClubSummary struct {
	ID          string `json:"_id"`
	ClubName    string `json:"clubName"`
	Location    string `json:"location,omitempty"`
	BannerImage string `json:"bannerImage,omitempty"`
}

func (c *Club) Summary() *ClubSummary {
	return &ClubSummary{ID: c.ID, ClubName: c.ClubName, Location: c.Location, BannerImage: c.BannerImage}
}
