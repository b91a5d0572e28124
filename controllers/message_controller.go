package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taskhive/authz"
	"taskhive/models"
	"taskhive/utils"
)

type MessageController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewMessageController(db *gorm.DB, logger *log.Logger) *MessageController {
	return &MessageController{
		DB:     db,
		Logger: logger,
	}
}

// CreateTaskMessage posts a message on a task's thread. Only the task's
// two participants may write; the receiver is always the other
// participant, so a task without an assignee cannot be messaged.
func (mc *MessageController) CreateTaskMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	task, err := mc.loadParticipantTask(c.Params("id"), user.ID)
	if err != nil {
		return messageTaskError(c, err)
	}

	var input struct {
		Text string `json:"text" validate:"required,min=1,max=2000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	receiver, err := authz.Counterpart(user.ID, task)
	if err != nil {
		if errors.Is(err, authz.ErrNoCounterpart) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Task has no assignee to message", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Forbidden", nil)
	}

	message := models.Message{
		TaskID:     task.ID,
		SenderID:   user.ID,
		ReceiverID: receiver,
		Text:       input.Text,
	}
	if err := mc.DB.Create(&message).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create message", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(message))
}

// GetTaskMessages returns a task's thread, oldest first. Participants only.
func (mc *MessageController) GetTaskMessages(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	task, err := mc.loadParticipantTask(c.Params("id"), user.ID)
	if err != nil {
		return messageTaskError(c, err)
	}

	var messages []models.Message
	err = mc.DB.Preload("Sender").
		Where("task_id = ?", task.ID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch messages", err)
	}

	return c.JSON(utils.SuccessResponse(messages))
}

// MarkTaskMessagesRead marks every unread message addressed to the
// caller in the task's thread as read.
func (mc *MessageController) MarkTaskMessagesRead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	task, err := mc.loadParticipantTask(c.Params("id"), user.ID)
	if err != nil {
		return messageTaskError(c, err)
	}

	result := mc.DB.Model(&models.Message{}).
		Where("task_id = ?", task.ID).
		Scopes(authz.UnreadMessages(user.ID)).
		Update("is_read", true)
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to mark messages read", result.Error)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"updated": result.RowsAffected}))
}

// GetUnreadMessageCount returns the number of unread messages addressed
// to the caller across all tasks. Polled by the client.
func (mc *MessageController) GetUnreadMessageCount(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var count int64
	err := mc.DB.Model(&models.Message{}).
		Scopes(authz.UnreadMessages(user.ID)).
		Count(&count).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count messages", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"count": count}))
}

// GetUnreadMessages lists the caller's unread messages across all tasks,
// newest first.
func (mc *MessageController) GetUnreadMessages(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var messages []models.Message
	err := mc.DB.Preload("Sender").Preload("Task").
		Scopes(authz.UnreadMessages(user.ID)).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch messages", err)
	}

	return c.JSON(utils.SuccessResponse(messages))
}

// DeleteMessage deletes a single message. Authorization is
// message-level: its sender or its receiver, regardless of task role.
func (mc *MessageController) DeleteMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var message models.Message
	if err := mc.DB.First(&message, "id = ?", c.Params("messageId")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Message not found", nil)
	}

	if !authz.CanDeleteMessage(user.ID, &message) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Forbidden", nil)
	}

	if err := mc.DB.Delete(&message).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete message", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// loadParticipantTask fetches a task and verifies the caller is one of
// its two participants. Hidden tasks surface as not found.
func (mc *MessageController) loadParticipantTask(taskID string, principal uint) (*models.Task, error) {
	var task models.Task
	if err := mc.DB.First(&task, "id = ?", taskID).Error; err != nil {
		return nil, authz.ErrNotFound
	}
	if !authz.CanMessageOnTask(principal, &task) {
		return nil, authz.ErrForbidden
	}
	return &task, nil
}

func messageTaskError(c *fiber.Ctx, err error) error {
	if errors.Is(err, authz.ErrForbidden) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Forbidden", nil)
	}
	return utils.ErrorResponse(c, fiber.StatusNotFound, "No task found with that ID", nil)
}
