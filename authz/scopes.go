package authz

import "gorm.io/gorm"

// PersonalTasks restricts a task query to non-team tasks visible to the
// principal: created by or assigned to them, with no team association.
func PersonalTasks(principal uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(created_by_id = ? OR assigned_to_id = ?) AND team_id IS NULL", principal, principal)
	}
}

// ParticipantTasks restricts a task query to tasks the principal
// participates in, team-scoped or not. Used for cross-task message
// queries, where participation rather than team membership governs.
func ParticipantTasks(principal uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_by_id = ? OR assigned_to_id = ?", principal, principal)
	}
}

// TeamTasks restricts a task query to one team's tasks. Callers must
// verify team membership first: a failed check is a Forbidden outcome,
// not an empty list.
func TeamTasks(teamID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("team_id = ?", teamID)
	}
}

// UnreadMessages restricts a message query to unread messages addressed
// to the principal.
func UnreadMessages(principal uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("receiver_id = ? AND is_read = ?", principal, false)
	}
}
