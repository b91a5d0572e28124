package controller

import (
	"github.com/gofiber/fiber/v2"

	"taskhive/config"
	"taskhive/models"
	"taskhive/utils"
)

// GetUsers returns every user as a reduced {id, name, email} projection,
// backing the assignee dropdown.
func GetUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := config.DB.Select("id", "name", "email").Find(&users).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch users", err)
	}

	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}

	return c.JSON(utils.SuccessResponse(public))
}

// GetUserProfile returns the authenticated user's record.
func GetUserProfile(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	return c.JSON(utils.SuccessResponse(user))
}

// UpdateUserProfile updates the mutable profile fields. Anything outside
// the whitelist (name, email, avatar) is ignored.
func UpdateUserProfile(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
		Email     *string `json:"email" validate:"omitempty,email"`
		AvatarURL *string `json:"avatar_url" validate:"omitempty,max=500"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = *input.AvatarURL
	}

	if len(updates) > 0 {
		if err := config.DB.Model(user).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update profile", err)
		}
	}

	return c.JSON(utils.SuccessResponse(user))
}

// DeleteUserAccount removes the user record. Tasks, messages and teams
// referencing the user are left in place; there is no cascade.
func DeleteUserAccount(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if err := config.DB.Delete(user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete account", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
