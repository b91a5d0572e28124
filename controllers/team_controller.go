package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taskhive/authz"
	"taskhive/models"
	"taskhive/utils"
)

type TeamController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewTeamController(db *gorm.DB, logger *log.Logger) *TeamController {
	return &TeamController{
		DB:     db,
		Logger: logger,
	}
}

// CreateTeam creates a team owned by the authenticated user. The owner
// never appears in the member rows.
func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name        string `json:"name" validate:"required,min=1,max=100"`
		Description string `json:"description" validate:"omitempty,max=500"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	team := models.Team{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     user.ID,
	}
	if err := tc.DB.Create(&team).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create team", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(team))
}

// GetOwnedTeams lists teams the user owns.
func (tc *TeamController) GetOwnedTeams(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var teams []models.Team
	if err := tc.DB.Preload("Members").Where("owner_id = ?", user.ID).Find(&teams).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch teams", err)
	}

	return c.JSON(utils.SuccessResponse(teams))
}

// GetJoinedTeams lists teams where the user is a member.
func (tc *TeamController) GetJoinedTeams(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var teams []models.Team
	err := tc.DB.Preload("Members").
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ? AND team_members.deleted_at IS NULL", user.ID).
		Find(&teams).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch teams", err)
	}

	return c.JSON(utils.SuccessResponse(teams))
}

// GetTeam returns a single team for its owner or a member.
func (tc *TeamController) GetTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	team, err := tc.loadTeam(c.Params("teamId"))
	if err != nil {
		return teamLookupError(c, err)
	}

	if !authz.CanViewTeam(user.ID, team) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Forbidden", nil)
	}

	return c.JSON(utils.SuccessResponse(team))
}

// InviteToTeam creates a pending invitation. Owner only; the invitee
// must not already belong to the team, and only one pending invitation
// may exist per (team, invitee).
func (tc *TeamController) InviteToTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		TeamID    uint `json:"team_id" validate:"required"`
		InviteeID uint `json:"invitee_id" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var team models.Team
	if err := tc.DB.Preload("Members").First(&team, "id = ?", input.TeamID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
	}

	if !authz.IsTeamOwner(user.ID, &team) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Only the owner can invite", nil)
	}
	if team.OwnerID == input.InviteeID {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Owner is already part of the team", nil)
	}
	if authz.IsTeamMember(input.InviteeID, &team) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "User already a member", nil)
	}

	var existing models.TeamInvitation
	err := tc.DB.Where("team_id = ? AND invitee_id = ? AND status = ?",
		input.TeamID, input.InviteeID, models.InvitationPending).First(&existing).Error
	if err == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "An active invitation already exists", nil)
	}

	invitation := models.TeamInvitation{
		TeamID:      input.TeamID,
		InvitedByID: user.ID,
		InviteeID:   input.InviteeID,
		Status:      models.InvitationPending,
	}
	if err := tc.DB.Create(&invitation).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create invitation", err)
	}

	// Email the invitee; delivery failure never fails the invite.
	var invitee models.User
	if err := tc.DB.First(&invitee, invitation.InviteeID).Error; err == nil {
		if err := utils.SendTeamInvitationEmail(invitee.Email, user.Name, team.Name); err != nil {
			tc.Logger.Printf("Failed to send invitation email to %s: %v", invitee.Email, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(invitation))
}

// GetInvitations lists the caller's pending invitations.
func (tc *TeamController) GetInvitations(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var invitations []models.TeamInvitation
	err := tc.DB.Preload("Team").Preload("InvitedBy").
		Where("invitee_id = ? AND status = ?", user.ID, models.InvitationPending).
		Find(&invitations).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch invitations", err)
	}

	return c.JSON(utils.SuccessResponse(invitations))
}

// RespondToInvitation accepts or rejects a pending invitation. Only the
// invitee may respond, and only while the invitation is still pending.
func (tc *TeamController) RespondToInvitation(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	invitationID := c.Params("invitationId")

	var input struct {
		Action string `json:"action" validate:"required,oneof=accept reject"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid action", err)
	}

	var invitation models.TeamInvitation
	if err := tc.DB.Where("id = ? AND invitee_id = ?", invitationID, user.ID).First(&invitation).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Invitation not found", nil)
	}

	if invitation.Status != models.InvitationPending {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invitation already handled", nil)
	}

	if input.Action == "accept" {
		invitation.Status = models.InvitationAccepted
		if err := tc.DB.Save(&invitation).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update invitation", err)
		}
		// Set-union semantics: re-adding an existing member is a no-op.
		member := models.TeamMember{TeamID: invitation.TeamID, UserID: user.ID}
		if err := tc.DB.Where(models.TeamMember{TeamID: invitation.TeamID, UserID: user.ID}).
			FirstOrCreate(&member).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add member", err)
		}
	} else {
		invitation.Status = models.InvitationRejected
		if err := tc.DB.Save(&invitation).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update invitation", err)
		}
	}

	return c.JSON(utils.SuccessResponse(invitation))
}

// RemoveMember removes a member from a team. Owner only.
func (tc *TeamController) RemoveMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		TeamID   uint `json:"team_id" validate:"required"`
		MemberID uint `json:"member_id" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var team models.Team
	if err := tc.DB.First(&team, "id = ?", input.TeamID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
	}
	if !authz.IsTeamOwner(user.ID, &team) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Only the owner can remove members", nil)
	}

	// Hard delete so the (team, user) unique index stays free for a
	// later re-join.
	err := tc.DB.Unscoped().Where("team_id = ? AND user_id = ?", input.TeamID, input.MemberID).
		Delete(&models.TeamMember{}).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove member", err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetTeamTasks lists a team's tasks. Membership is checked first; a
// non-member gets Forbidden, not an empty list.
func (tc *TeamController) GetTeamTasks(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	team, err := tc.loadTeam(c.Params("teamId"))
	if err != nil {
		return teamLookupError(c, err)
	}
	if !authz.CanViewTeam(user.ID, team) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Forbidden", nil)
	}

	var tasks []models.Task
	if err := tc.DB.Scopes(authz.TeamTasks(team.ID)).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch tasks", err)
	}

	return c.JSON(utils.SuccessResponse(tasks))
}

// CreateTeamTask creates a task in the team. Owner only.
func (tc *TeamController) CreateTeamTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	team, err := tc.loadTeam(c.Params("teamId"))
	if err != nil {
		return teamLookupError(c, err)
	}
	if !authz.CanCreateTeamTask(user.ID, team) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Only the owner can create tasks", nil)
	}

	var input struct {
		Title       string     `json:"title" validate:"required,min=1,max=200"`
		Description string     `json:"description" validate:"omitempty,max=2000"`
		Status      string     `json:"status" validate:"omitempty,oneof=todo in-progress completed"`
		Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
		DueDate     *time.Time `json:"due_date"`
		Tags        []string   `json:"tags"`
		AssignedTo  *uint      `json:"assigned_to_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	task := models.Task{
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		Priority:     input.Priority,
		DueDate:      input.DueDate,
		Tags:         input.Tags,
		AssignedToID: input.AssignedTo,
		CreatedByID:  user.ID,
		TeamID:       &team.ID,
	}
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}

	if err := tc.DB.Create(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create task", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(task))
}

// UpdateTeamTask updates a team task. The creator may change any field;
// other members are narrowed to the status field, and a member payload
// without a status is rejected outright.
func (tc *TeamController) UpdateTeamTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	team, err := tc.loadTeam(c.Params("teamId"))
	if err != nil {
		return teamLookupError(c, err)
	}
	if !authz.CanViewTeam(user.ID, team) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Forbidden", nil)
	}

	var task models.Task
	if err := tc.DB.Where("id = ? AND team_id = ?", c.Params("taskId"), team.ID).First(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	var input taskInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updates, err := authz.ProjectTaskUpdate(user.ID, &task, input.updates())
	if err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Only status can be updated by members", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task", err)
	}

	if err := applyTaskUpdates(tc.DB, &task, updates); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task", err)
	}

	return c.JSON(utils.SuccessResponse(task))
}

// DeleteTeamTask deletes a team task. Only the task's creator may do
// this; the team owner gets no override.
func (tc *TeamController) DeleteTeamTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	team, err := tc.loadTeam(c.Params("teamId"))
	if err != nil {
		return teamLookupError(c, err)
	}

	var task models.Task
	if err := tc.DB.Where("id = ? AND team_id = ?", c.Params("taskId"), team.ID).First(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	if !authz.CanDeleteTask(user.ID, &task) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Only the task creator can delete this task", nil)
	}

	if err := tc.DB.Where("task_id = ?", task.ID).Delete(&models.Message{}).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete task messages", err)
	}
	if err := tc.DB.Delete(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete task", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (tc *TeamController) loadTeam(teamID string) (*models.Team, error) {
	var team models.Team
	if err := tc.DB.Preload("Members").Preload("Members.User").Preload("Owner").
		First(&team, "id = ?", teamID).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func teamLookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
	}
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch team", err)
}
