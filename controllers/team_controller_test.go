package controller_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhive/models"
)

func TestInvitationLifecycle(t *testing.T) {
	app, db := setupTest(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	invitee := createUser(t, db, "Maria", "maria@example.com")
	ownerToken := authToken(t, owner)
	inviteeToken := authToken(t, invitee)

	team := models.Team{Name: "Platform", OwnerID: owner.ID}
	require.NoError(t, db.Create(&team).Error)

	// Owner invites
	resp, body := doRequest(t, app, "POST", "/api/v1/teams/invite", ownerToken, map[string]interface{}{
		"team_id":    team.ID,
		"invitee_id": invitee.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	invitation := dataField(t, body)
	assert.Equal(t, "pending", invitation["status"])
	invitationID := int(invitation["ID"].(float64))

	// A second invite while one is pending is rejected
	resp, _ = doRequest(t, app, "POST", "/api/v1/teams/invite", ownerToken, map[string]interface{}{
		"team_id":    team.ID,
		"invitee_id": invitee.ID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Invitee sees it in their pending list
	resp, body = doRequest(t, app, "GET", "/api/v1/teams/invitations", inviteeToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["data"].([]interface{}), 1)

	// Accept: member added, invitation flips to accepted
	resp, body = doRequest(t, app, "PATCH", "/api/v1/teams/invitations/"+strconv.Itoa(invitationID), inviteeToken, map[string]interface{}{
		"action": "accept",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "accepted", dataField(t, body)["status"])

	var member models.TeamMember
	require.NoError(t, db.Where("team_id = ? AND user_id = ?", team.ID, invitee.ID).First(&member).Error)

	// Accepting again is rejected: the invitation is no longer pending
	resp, _ = doRequest(t, app, "PATCH", "/api/v1/teams/invitations/"+strconv.Itoa(invitationID), inviteeToken, map[string]interface{}{
		"action": "accept",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvite_OnlyOwner(t *testing.T) {
	app, db := setupTest(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	member := createUser(t, db, "Member", "member@example.com")
	outsider := createUser(t, db, "Outsider", "outsider@example.com")

	team := models.Team{Name: "Platform", OwnerID: owner.ID}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, db.Create(&models.TeamMember{TeamID: team.ID, UserID: member.ID}).Error)

	resp, _ := doRequest(t, app, "POST", "/api/v1/teams/invite", authToken(t, member), map[string]interface{}{
		"team_id":    team.ID,
		"invitee_id": outsider.ID,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Inviting an existing member is rejected
	resp, _ = doRequest(t, app, "POST", "/api/v1/teams/invite", authToken(t, owner), map[string]interface{}{
		"team_id":    team.ID,
		"invitee_id": member.ID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// So is inviting the owner themselves
	resp, _ = doRequest(t, app, "POST", "/api/v1/teams/invite", authToken(t, owner), map[string]interface{}{
		"team_id":    team.ID,
		"invitee_id": owner.ID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRespondToInvitation_InviteeOnly(t *testing.T) {
	app, db := setupTest(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	invitee := createUser(t, db, "Maria", "maria@example.com")
	other := createUser(t, db, "Other", "other@example.com")

	team := models.Team{Name: "Platform", OwnerID: owner.ID}
	require.NoError(t, db.Create(&team).Error)
	invitation := models.TeamInvitation{TeamID: team.ID, InvitedByID: owner.ID, InviteeID: invitee.ID, Status: "pending"}
	require.NoError(t, db.Create(&invitation).Error)

	// Someone else responding sees not-found, not the invitation
	resp, _ := doRequest(t, app, "PATCH", "/api/v1/teams/invitations/"+strconv.Itoa(int(invitation.ID)), authToken(t, other), map[string]interface{}{
		"action": "accept",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReinviteAfterRejection(t *testing.T) {
	app, db := setupTest(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	invitee := createUser(t, db, "Maria", "maria@example.com")

	team := models.Team{Name: "Platform", OwnerID: owner.ID}
	require.NoError(t, db.Create(&team).Error)
	invitation := models.TeamInvitation{TeamID: team.ID, InvitedByID: owner.ID, InviteeID: invitee.ID, Status: "rejected"}
	require.NoError(t, db.Create(&invitation).Error)

	// Only a pending duplicate is blocked; a rejected one is history
	resp, _ := doRequest(t, app, "POST", "/api/v1/teams/invite", authToken(t, owner), map[string]interface{}{
		"team_id":    team.ID,
		"invitee_id": invitee.ID,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestGetTeam_VisibilityAndForbidden(t *testing.T) {
	app, db := setupTest(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	member := createUser(t, db, "Member", "member@example.com")
	outsider := createUser(t, db, "Outsider", "outsider@example.com")

	team := models.Team{Name: "Platform", OwnerID: owner.ID}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, db.Create(&models.TeamMember{TeamID: team.ID, UserID: member.ID}).Error)

	teamPath := "/api/v1/teams/" + strconv.Itoa(int(team.ID))

	resp, _ := doRequest(t, app, "GET", teamPath, authToken(t, owner), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, "GET", teamPath, authToken(t, member), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Team membership checks fail loudly, unlike ownership-scoped task
	// lookups
	resp, _ = doRequest(t, app, "GET", teamPath, authToken(t, outsider), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestTeamTaskUpdate_MemberStatusOnly(t *testing.T) {
	app, db := setupTest(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	member := createUser(t, db, "Maria", "maria@example.com")
	memberToken := authToken(t, member)

	team := models.Team{Name: "Platform", OwnerID: owner.ID}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, db.Create(&models.TeamMember{TeamID: team.ID, UserID: member.ID}).Error)

	task := models.Task{Title: "Ship it", CreatedByID: owner.ID, TeamID: &team.ID, AssignedToID: &member.ID, Status: "todo", Priority: "medium"}
	require.NoError(t, db.Create(&task).Error)

	base := "/api/v1/teams/" + strconv.Itoa(int(team.ID)) + "/tasks/" + strconv.Itoa(int(task.ID))

	// Status-only payload from a member succeeds and stamps completion
	resp, _ := doRequest(t, app, "PATCH", base, memberToken, map[string]interface{}{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reloaded models.Task
	require.NoError(t, db.First(&reloaded, task.ID).Error)
	assert.Equal(t, "completed", reloaded.Status)
	assert.NotNil(t, reloaded.CompletionTime)

	// A payload without status is rejected with Forbidden
	resp, _ = doRequest(t, app, "PATCH", base, memberToken, map[string]interface{}{
		"priority": "high",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	require.NoError(t, db.First(&reloaded, task.ID).Error)
	assert.Equal(t, "medium", reloaded.Priority, "nothing applied on rejection")

	// Mixed payload: non-status fields are dropped silently
	resp, _ = doRequest(t, app, "PATCH", base, memberToken, map[string]interface{}{
		"title":  "hijacked",
		"status": "in-progress",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&reloaded, task.ID).Error)
	assert.Equal(t, "Ship it", reloaded.Title)
	assert.Equal(t, "in-progress", reloaded.Status)
}

func TestTeamTaskCreate_OwnerOnly(t *testing.T) {
	app, db := setupTest(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	member := createUser(t, db, "Member", "member@example.com")

	team := models.Team{Name: "Platform", OwnerID: owner.ID}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, db.Create(&models.TeamMember{TeamID: team.ID, UserID: member.ID}).Error)

	path := "/api/v1/teams/" + strconv.Itoa(int(team.ID)) + "/tasks"

	resp, _ := doRequest(t, app, "POST", path, authToken(t, member), map[string]interface{}{
		"title": "Not allowed",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := doRequest(t, app, "POST", path, authToken(t, owner), map[string]interface{}{
		"title": "Allowed",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(team.ID), dataField(t, body)["team_id"])
}

func TestTeamTaskDelete_CreatorOnlyEvenForOwner(t *testing.T) {
	app, db := setupTest(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	member := createUser(t, db, "Member", "member@example.com")

	team := models.Team{Name: "Platform", OwnerID: owner.ID}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, db.Create(&models.TeamMember{TeamID: team.ID, UserID: member.ID}).Error)

	// Task created by the member (e.g. before a role change); the team
	// owner still may not delete it
	task := models.Task{Title: "Member's task", CreatedByID: member.ID, TeamID: &team.ID, Status: "todo", Priority: "medium"}
	require.NoError(t, db.Create(&task).Error)

	path := "/api/v1/teams/" + strconv.Itoa(int(team.ID)) + "/tasks/" + strconv.Itoa(int(task.ID))

	resp, _ := doRequest(t, app, "DELETE", path, authToken(t, owner), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doRequest(t, app, "DELETE", path, authToken(t, member), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRemoveMember_OwnerOnly(t *testing.T) {
	app, db := setupTest(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	member := createUser(t, db, "Member", "member@example.com")

	team := models.Team{Name: "Platform", OwnerID: owner.ID}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, db.Create(&models.TeamMember{TeamID: team.ID, UserID: member.ID}).Error)

	resp, _ := doRequest(t, app, "POST", "/api/v1/teams/remove-member", authToken(t, member), map[string]interface{}{
		"team_id":   team.ID,
		"member_id": member.ID,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doRequest(t, app, "POST", "/api/v1/teams/remove-member", authToken(t, owner), map[string]interface{}{
		"team_id":   team.ID,
		"member_id": member.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.TeamMember{}).Where("team_id = ? AND user_id = ?", team.ID, member.ID).Count(&count)
	assert.Zero(t, count)
}

func TestGetTeamTasks_ForbiddenForNonMember(t *testing.T) {
	app, db := setupTest(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	outsider := createUser(t, db, "Outsider", "outsider@example.com")

	team := models.Team{Name: "Platform", OwnerID: owner.ID}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, db.Create(&models.Task{Title: "Hidden", CreatedByID: owner.ID, TeamID: &team.ID, Status: "todo", Priority: "medium"}).Error)

	// An authorization failure, not an empty list
	resp, _ := doRequest(t, app, "GET", "/api/v1/teams/"+strconv.Itoa(int(team.ID))+"/tasks", authToken(t, outsider), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
