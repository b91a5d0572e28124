package models

import "gorm.io/gorm"

// Team represents a collaboration team. The owner is set at creation and
// never changes; the owner is not duplicated into the member rows.
type Team struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`

	// Relations
	Owner   User         `json:"owner,omitempty"`
	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// MemberIDs returns the user IDs of all members (owner excluded).
func (t *Team) MemberIDs() []uint {
	ids := make([]uint, 0, len(t.Members))
	for _, m := range t.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// TeamMember links a user to a team. One row per (team, user).
type TeamMember struct {
	gorm.Model
	TeamID uint `gorm:"not null;index;uniqueIndex:idx_team_user" json:"team_id"`
	UserID uint `gorm:"not null;index;uniqueIndex:idx_team_user" json:"user_id"`

	// Relations
	Team Team `json:"-"`
	User User `json:"user,omitempty"`
}

// Invitation status values. Accepted and rejected are terminal.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
)

// TeamInvitation tracks the invite workflow. At most one pending
// invitation may exist per (team, invitee) pair; re-inviting after a
// rejection is allowed.
type TeamInvitation struct {
	gorm.Model
	TeamID      uint   `gorm:"not null;index" json:"team_id"`
	InvitedByID uint   `gorm:"not null" json:"invited_by_id"`
	InviteeID   uint   `gorm:"not null;index" json:"invitee_id"`
	Status      string `gorm:"default:'pending'" json:"status"` // pending, accepted, rejected

	// Relations
	Team      Team `json:"team,omitempty"`
	InvitedBy User `gorm:"foreignKey:InvitedByID" json:"invited_by,omitempty"`
	Invitee   User `gorm:"foreignKey:InviteeID" json:"-"`
}
