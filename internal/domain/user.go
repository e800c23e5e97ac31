// Package domain defines the data structures shared across the application.
package domain

import "time"

// User is the durable identity record. Account creation, password and
// email verification flows live in the surrounding platform; this service
// only reads users to resolve authenticated connections.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	FirstName    string    `gorm:"size:50" json:"firstName"`
	LastName     string    `gorm:"size:50" json:"lastName"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email,omitempty"`
	ProfileImage string    `gorm:"size:512" json:"profileImage"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// PublicProfile is the subset of user fields broadcast to other room
// members. Email and activity flags never leave the server.
type PublicProfile struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"firstName"`
	ProfileImage string `json:"profileImage"`
}

// Public returns the broadcast-safe view of the user.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		ProfileImage: u.ProfileImage,
	}
}
