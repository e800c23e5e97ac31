package domain

import "time"

// Membership roles. The owner role is assigned exactly once, at room
// creation, to the creator.
const (
	RoleOwner       = "owner"
	RoleModerator   = "moderator"
	RoleParticipant = "participant"
)

// RoomMember records a user's participation history in a room. At most
// one active row exists per (room, user) pair; re-joining reactivates the
// existing row instead of creating a duplicate.
type RoomMember struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	RoomID            uint       `gorm:"uniqueIndex:idx_room_user;not null" json:"roomId"`
	UserID            uint       `gorm:"uniqueIndex:idx_room_user;not null" json:"userId"`
	Role              string     `gorm:"size:20;not null;default:participant" json:"role"`
	JoinedAt          time.Time  `json:"joinedAt"`
	LeftAt            *time.Time `json:"leftAt,omitempty"`
	IsActive          bool       `gorm:"index;default:true" json:"isActive"`
	ContributionCount int        `gorm:"default:0" json:"contributionCount"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}
