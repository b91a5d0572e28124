package models

import (
	"time"

	"gorm.io/gorm"
)

// Meeting is a team-scoped calendar entry. Created by the team owner,
// updatable and deletable by the owner or the meeting's creator.
type Meeting struct {
	gorm.Model
	TeamID      uint       `gorm:"not null;index" json:"team_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	StartAt     time.Time  `gorm:"not null;index" json:"start_at"`
	EndAt       *time.Time `json:"end_at,omitempty"`
	Link        string     `json:"link,omitempty"`
	Attendees   []uint     `gorm:"serializer:json" json:"attendees"`
	CreatedByID uint       `gorm:"not null" json:"created_by_id"`

	// Relations
	Team      Team `json:"-"`
	CreatedBy User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
