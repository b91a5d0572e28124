package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhive/authz"
	"taskhive/models"
)

func team(owner uint, members ...uint) *models.Team {
	t := &models.Team{OwnerID: owner}
	for _, m := range members {
		t.Members = append(t.Members, models.TeamMember{UserID: m})
	}
	return t
}

func personalTask(creator uint, assignee *uint) *models.Task {
	return &models.Task{CreatedByID: creator, AssignedToID: assignee}
}

func TestCanViewTask_Personal(t *testing.T) {
	assignee := uint(2)
	task := personalTask(1, &assignee)

	assert.True(t, authz.CanViewTask(1, task, nil), "creator sees the task")
	assert.True(t, authz.CanViewTask(2, task, nil), "assignee sees the task")
	assert.False(t, authz.CanViewTask(3, task, nil), "outsider does not")

	unassigned := personalTask(1, nil)
	assert.True(t, authz.CanViewTask(1, unassigned, nil))
	assert.False(t, authz.CanViewTask(2, unassigned, nil))
}

func TestCanViewTask_TeamScoped(t *testing.T) {
	tm := team(10, 11, 12)
	teamID := uint(5)
	task := &models.Task{CreatedByID: 10, TeamID: &teamID}

	assert.True(t, authz.CanViewTask(10, task, tm), "owner")
	assert.True(t, authz.CanViewTask(11, task, tm), "member")
	assert.False(t, authz.CanViewTask(99, task, tm), "non-member")
	assert.False(t, authz.CanViewTask(10, task, nil), "missing team hides the task")
}

func TestCanViewTeam(t *testing.T) {
	tm := team(1, 2, 3)

	assert.True(t, authz.CanViewTeam(1, tm))
	assert.True(t, authz.CanViewTeam(3, tm))
	assert.False(t, authz.CanViewTeam(4, tm))
}

func TestProjectTaskUpdate_CreatorKeepsFullPayload(t *testing.T) {
	teamID := uint(5)
	task := &models.Task{CreatedByID: 1, TeamID: &teamID}

	updates := map[string]interface{}{"title": "x", "status": "completed", "priority": "high"}
	projected, err := authz.ProjectTaskUpdate(1, task, updates)
	require.NoError(t, err)
	assert.Equal(t, updates, projected)
}

func TestProjectTaskUpdate_MemberNarrowedToStatus(t *testing.T) {
	teamID := uint(5)
	task := &models.Task{CreatedByID: 1, TeamID: &teamID}

	projected, err := authz.ProjectTaskUpdate(2, task, map[string]interface{}{
		"title":  "hijacked",
		"status": "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"status": "completed"}, projected, "non-status fields dropped silently")
}

func TestProjectTaskUpdate_MemberWithoutStatusForbidden(t *testing.T) {
	teamID := uint(5)
	task := &models.Task{CreatedByID: 1, TeamID: &teamID}

	_, err := authz.ProjectTaskUpdate(2, task, map[string]interface{}{"priority": "high"})
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestCounterpart(t *testing.T) {
	assignee := uint(2)
	task := personalTask(1, &assignee)

	receiver, err := authz.Counterpart(1, task)
	require.NoError(t, err)
	assert.Equal(t, uint(2), receiver)

	receiver, err = authz.Counterpart(2, task)
	require.NoError(t, err)
	assert.Equal(t, uint(1), receiver)

	_, err = authz.Counterpart(3, task)
	assert.ErrorIs(t, err, authz.ErrForbidden)

	_, err = authz.Counterpart(1, personalTask(1, nil))
	assert.ErrorIs(t, err, authz.ErrNoCounterpart)
}

func TestCanDeleteMessage(t *testing.T) {
	msg := &models.Message{SenderID: 1, ReceiverID: 2}

	assert.True(t, authz.CanDeleteMessage(1, msg))
	assert.True(t, authz.CanDeleteMessage(2, msg))
	assert.False(t, authz.CanDeleteMessage(3, msg))
}

func TestCanDeleteTask_CreatorOnly(t *testing.T) {
	teamID := uint(5)
	task := &models.Task{CreatedByID: 7, TeamID: &teamID}

	assert.True(t, authz.CanDeleteTask(7, task))
	assert.False(t, authz.CanDeleteTask(10, task), "team owner has no delete override")
}

func TestCanManageMeeting(t *testing.T) {
	tm := team(1, 2, 3)
	meeting := &models.Meeting{CreatedByID: 2}

	assert.True(t, authz.CanManageMeeting(1, tm, meeting), "team owner")
	assert.True(t, authz.CanManageMeeting(2, tm, meeting), "meeting creator")
	assert.False(t, authz.CanManageMeeting(3, tm, meeting), "plain member")
}
