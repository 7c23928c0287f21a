package model

import "time"

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleClubManager Role = "clubManager"
	RoleMember      Role = "member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClubManager, RoleMember:
		return true
	}
	return false
}

type User struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"_id"`
	Name      string    `gorm:"size:128;not null" bson:"name" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:191;not null" bson:"email" json:"email"`
	PhotoURL  string    `gorm:"size:512" bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role      Role      `gorm:"size:16;not null;default:member" bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
