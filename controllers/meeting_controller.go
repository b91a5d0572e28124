package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taskhive/authz"
	"taskhive/models"
	"taskhive/utils"
)

type MeetingController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewMeetingController(db *gorm.DB, logger *log.Logger) *MeetingController {
	return &MeetingController{
		DB:     db,
		Logger: logger,
	}
}

// GetTeamMeetings lists a team's meetings for its owner or members.
func (mc *MeetingController) GetTeamMeetings(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	team, err := mc.loadTeam(c.Params("teamId"))
	if err != nil {
		return teamLookupError(c, err)
	}
	if !authz.CanViewTeam(user.ID, team) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Forbidden", nil)
	}

	var meetings []models.Meeting
	err = mc.DB.Where("team_id = ?", team.ID).Order("start_at ASC").Find(&meetings).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch meetings", err)
	}

	return c.JSON(utils.SuccessResponse(meetings))
}

// CreateTeamMeeting schedules a meeting. Team owner only.
func (mc *MeetingController) CreateTeamMeeting(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	team, err := mc.loadTeam(c.Params("teamId"))
	if err != nil {
		return teamLookupError(c, err)
	}
	if !authz.CanCreateMeeting(user.ID, team) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Only the owner can create meetings", nil)
	}

	var input struct {
		Title       string     `json:"title" validate:"required,min=1,max=200"`
		Description string     `json:"description" validate:"omitempty,max=2000"`
		StartAt     time.Time  `json:"start_at" validate:"required"`
		EndAt       *time.Time `json:"end_at"`
		Link        string     `json:"link" validate:"omitempty,max=500"`
		Attendees   []uint     `json:"attendees"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	meeting := models.Meeting{
		TeamID:      team.ID,
		Title:       input.Title,
		Description: input.Description,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
		Link:        input.Link,
		Attendees:   input.Attendees,
		CreatedByID: user.ID,
	}
	if err := mc.DB.Create(&meeting).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create meeting", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(meeting))
}

// UpdateTeamMeeting updates a meeting. Team owner or the meeting's
// creator.
func (mc *MeetingController) UpdateTeamMeeting(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	team, err := mc.loadTeam(c.Params("teamId"))
	if err != nil {
		return teamLookupError(c, err)
	}

	var meeting models.Meeting
	if err := mc.DB.Where("id = ? AND team_id = ?", c.Params("meetingId"), team.ID).First(&meeting).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Meeting not found", nil)
	}

	if !authz.CanManageMeeting(user.ID, team, &meeting) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Forbidden", nil)
	}

	var input struct {
		Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
		Description *string    `json:"description" validate:"omitempty,max=2000"`
		StartAt     *time.Time `json:"start_at"`
		EndAt       *time.Time `json:"end_at"`
		Link        *string    `json:"link" validate:"omitempty,max=500"`
		Attendees   *[]uint    `json:"attendees"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.StartAt != nil {
		updates["start_at"] = *input.StartAt
	}
	if input.EndAt != nil {
		updates["end_at"] = *input.EndAt
	}
	if input.Link != nil {
		updates["link"] = *input.Link
	}
	if input.Attendees != nil {
		updates["attendees"] = *input.Attendees
	}

	if len(updates) > 0 {
		if err := mc.DB.Model(&meeting).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update meeting", err)
		}
	}

	return c.JSON(utils.SuccessResponse(meeting))
}

// DeleteTeamMeeting deletes a meeting. Team owner or the meeting's
// creator.
func (mc *MeetingController) DeleteTeamMeeting(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	team, err := mc.loadTeam(c.Params("teamId"))
	if err != nil {
		return teamLookupError(c, err)
	}

	var meeting models.Meeting
	if err := mc.DB.Where("id = ? AND team_id = ?", c.Params("meetingId"), team.ID).First(&meeting).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Meeting not found", nil)
	}

	if !authz.CanManageMeeting(user.ID, team, &meeting) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Forbidden", nil)
	}

	if err := mc.DB.Delete(&meeting).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete meeting", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (mc *MeetingController) loadTeam(teamID string) (*models.Team, error) {
	var team models.Team
	if err := mc.DB.Preload("Members").First(&team, "id = ?", teamID).Error; err != nil {
		return nil, err
	}
	return &team, nil
}
