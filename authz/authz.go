// Package authz decides, for a given principal and a loaded resource,
// whether an operation is permitted, and builds the query scopes that
// restrict list results to authorized resources.
//
// Every function takes the principal explicitly; nothing here reads
// request state. Controllers load the resource (and its team, for
// team-scoped tasks) and consult the predicates before any mutation.
package authz

import (
	"errors"

	"taskhive/models"
)

// Sentinel errors mapped to HTTP status codes by the controllers.
var (
	// ErrForbidden: the principal is known but lacks rights for the
	// specific operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound covers both an absent resource and one hidden by a
	// visibility predicate; the two are indistinguishable to callers.
	ErrNotFound = errors.New("not found")

	// ErrNoCounterpart: the task has no assignee, so a message has no
	// receiver to be addressed to.
	ErrNoCounterpart = errors.New("task has no assignee to message")
)

// IsTeamOwner reports whether the principal owns the team.
func IsTeamOwner(principal uint, team *models.Team) bool {
	return team.OwnerID == principal
}

// IsTeamMember reports whether the principal appears in the team's
// member rows. The owner is never listed as a member.
func IsTeamMember(principal uint, team *models.Team) bool {
	for _, m := range team.Members {
		if m.UserID == principal {
			return true
		}
	}
	return false
}

// CanViewTeam gates team reads: owner or any member.
func CanViewTeam(principal uint, team *models.Team) bool {
	return IsTeamOwner(principal, team) || IsTeamMember(principal, team)
}

// CanViewTask is the task visibility predicate. For a personal task the
// principal must be the creator or the assignee; for a team task,
// team-level visibility applies and team must be the task's team.
func CanViewTask(principal uint, task *models.Task, team *models.Team) bool {
	if task.IsTeamTask() {
		return team != nil && CanViewTeam(principal, team)
	}
	return isParticipant(principal, task)
}

// CanUpdatePersonalTask allows full-field updates by the creator or the
// assignee of a non-team task.
func CanUpdatePersonalTask(principal uint, task *models.Task) bool {
	return isParticipant(principal, task)
}

// CanCreateTeamTask: only the team owner creates team-scoped tasks.
func CanCreateTeamTask(principal uint, team *models.Team) bool {
	return IsTeamOwner(principal, team)
}

// CanDeleteTask: only the task's creator may delete it. This holds for
// personal and team tasks alike; the team owner gets no override.
func CanDeleteTask(principal uint, task *models.Task) bool {
	return task.CreatedByID == principal
}

// ProjectTaskUpdate applies the permission-narrowing rule for team task
// updates. The creator keeps the full payload. Any other owner-or-member
// is narrowed to the status field: other fields are dropped silently,
// and a payload that carries no status at all is rejected with
// ErrForbidden. Membership must already have been checked by the caller.
func ProjectTaskUpdate(principal uint, task *models.Task, updates map[string]interface{}) (map[string]interface{}, error) {
	if task.CreatedByID == principal {
		return updates, nil
	}
	status, ok := updates["status"]
	if !ok {
		return nil, ErrForbidden
	}
	return map[string]interface{}{"status": status}, nil
}

// CanMessageOnTask gates thread reads and message creation: only the
// task's two participants.
func CanMessageOnTask(principal uint, task *models.Task) bool {
	return isParticipant(principal, task)
}

// Counterpart computes the receiver of a new message: the participant
// who is not the sender. A task without an assignee has no counterpart.
func Counterpart(sender uint, task *models.Task) (uint, error) {
	if task.AssignedToID == nil {
		return 0, ErrNoCounterpart
	}
	if sender == task.CreatedByID {
		return *task.AssignedToID, nil
	}
	if sender == *task.AssignedToID {
		return task.CreatedByID, nil
	}
	return 0, ErrForbidden
}

// CanDeleteMessage is message-level, not task-level: the sender or the
// receiver of that specific message.
func CanDeleteMessage(principal uint, msg *models.Message) bool {
	return msg.SenderID == principal || msg.ReceiverID == principal
}

// CanCreateMeeting: only the team owner.
func CanCreateMeeting(principal uint, team *models.Team) bool {
	return IsTeamOwner(principal, team)
}

// CanManageMeeting gates meeting update and delete: the team owner or
// the meeting's own creator.
func CanManageMeeting(principal uint, team *models.Team, meeting *models.Meeting) bool {
	return IsTeamOwner(principal, team) || meeting.CreatedByID == principal
}

func isParticipant(principal uint, task *models.Task) bool {
	if task.CreatedByID == principal {
		return true
	}
	return task.AssignedToID != nil && *task.AssignedToID == principal
}
