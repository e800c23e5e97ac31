package domain

import "time"

// Room is a durable collaboration unit. A room with IsActive=false has
// ended and never accepts new joins or content changes.
type Room struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	OwnerID         uint       `gorm:"index;not null" json:"ownerId"`
	Owner           User       `gorm:"foreignKey:OwnerID" json:"owner"`
	Name            string     `gorm:"size:100;not null" json:"name"`
	Description     string     `gorm:"size:500" json:"description"`
	Topic           string     `gorm:"size:200;not null" json:"topic"`
	Technologies    []string   `gorm:"serializer:json;type:text" json:"technologies"`
	MaxParticipants int        `gorm:"not null;default:10" json:"maxParticipants"`
	IsActive        bool       `gorm:"index;default:true" json:"isActive"`
	IsPublic        bool       `gorm:"index;default:true" json:"isPublic"`
	RoomCode        string     `gorm:"uniqueIndex;size:8;not null" json:"roomCode"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}
