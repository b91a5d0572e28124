package models

import (
	"gorm.io/gorm"
)

// User represents a user account in the system
type User struct {
	gorm.Model

	// Authentication fields
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Google OAuth fields
	GoogleID       *string `gorm:"uniqueIndex" json:"google_id,omitempty"`
	GoogleImageURL *string `json:"google_image_url,omitempty"`

	// Profile information
	Name      string  `gorm:"not null" json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Timezone  string  `gorm:"default:'UTC'" json:"timezone"`

	// Account status
	IsActive     bool `gorm:"default:true" json:"is_active"`
	TokenVersion int  `gorm:"default:0" json:"-"`

	// Relations
	OwnedTeams   []Team `gorm:"foreignKey:OwnerID" json:"owned_teams,omitempty"`
	CreatedTasks []Task `gorm:"foreignKey:CreatedByID" json:"created_tasks,omitempty"`
}

// PublicUser is the reduced projection returned by the user listing
// used for assignee selection.
type PublicUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the listing projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
