package controller

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taskhive/authz"
	"taskhive/models"
	"taskhive/utils"
)

type TaskController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewTaskController(db *gorm.DB, logger *log.Logger) *TaskController {
	return &TaskController{
		DB:     db,
		Logger: logger,
	}
}

// taskInput uses pointer fields so an absent key and a zero value can be
// told apart when building the update map.
type taskInput struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=todo in-progress completed"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	Tags        *[]string  `json:"tags"`
	AssignedTo  *uint      `json:"assigned_to_id"`
}

func (in *taskInput) updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if in.Priority != nil {
		updates["priority"] = *in.Priority
	}
	if in.DueDate != nil {
		updates["due_date"] = *in.DueDate
	}
	if in.Tags != nil {
		updates["tags"] = *in.Tags
	}
	if in.AssignedTo != nil {
		updates["assigned_to_id"] = *in.AssignedTo
	}
	return updates
}

// applyTaskUpdates writes the update map to the task row. Completion
// time is stamped every time the status lands on completed, including
// re-completion.
func applyTaskUpdates(db *gorm.DB, task *models.Task, updates map[string]interface{}) error {
	if status, ok := updates["status"]; ok && status == models.TaskStatusCompleted {
		updates["completion_time"] = time.Now()
	}
	return db.Model(task).Updates(updates).Error
}

// CreateTask creates a personal task for the authenticated user.
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

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
	}
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	if task.Status == models.TaskStatusCompleted {
		task.CompletionTime = utils.Pointer(time.Now())
	}

	if err := tc.DB.Create(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create task", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(task))
}

// GetTasks lists the user's personal tasks with filters and pagination.
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := tc.DB.Scopes(authz.PersonalTasks(user.ID))

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch tasks", err)
	}

	var total int64
	query.Model(&models.Task{}).Count(&total)

	return c.JSON(utils.PaginatedResponse{
		Data:  tasks,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetTask returns a single task the user may see. A task that exists
// but is hidden by the visibility predicate reads as not found.
func (tc *TaskController) GetTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	taskID := c.Params("id")

	var task models.Task
	if err := tc.DB.First(&task, "id = ?", taskID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No task found with that ID", nil)
	}

	team, err := tc.loadTaskTeam(&task)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch task", err)
	}

	if !authz.CanViewTask(user.ID, &task, team) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No task found with that ID", nil)
	}

	return c.JSON(utils.SuccessResponse(task))
}

// UpdateTask updates a personal task. Team tasks are updated through
// the team routes and read as not found here.
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	taskID := c.Params("id")

	var input taskInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var task models.Task
	if err := tc.DB.Scopes(authz.PersonalTasks(user.ID)).First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "No task found with that ID", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch task", err)
	}

	if !authz.CanUpdatePersonalTask(user.ID, &task) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No task found with that ID", nil)
	}

	if err := applyTaskUpdates(tc.DB, &task, input.updates()); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task", err)
	}

	return c.JSON(utils.SuccessResponse(task))
}

// DeleteTask deletes a personal task. Only the creator may delete; a
// task merely assigned to the caller reads as not found.
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	taskID := c.Params("id")

	var task models.Task
	if err := tc.DB.Where("id = ? AND created_by_id = ? AND team_id IS NULL", taskID, user.ID).First(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No task found with that ID", nil)
	}

	// Task messages depend on the task row; remove them with it.
	if err := tc.DB.Where("task_id = ?", task.ID).Delete(&models.Message{}).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete task messages", err)
	}
	if err := tc.DB.Delete(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete task", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetTaskStats returns task counts grouped by status across every task
// the user participates in.
func (tc *TaskController) GetTaskStats(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}

	var stats []statusCount
	err := tc.DB.Model(&models.Task{}).
		Scopes(authz.ParticipantTasks(user.ID)).
		Select("status, count(*) as count").
		Group("status").
		Scan(&stats).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch stats", err)
	}

	return c.JSON(utils.SuccessResponse(stats))
}

// GetTasksByDate lists the user's tasks due on the given calendar day.
func (tc *TaskController) GetTasksByDate(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	date, err := time.Parse("2006-01-02", c.Params("date"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
	}
	nextDay := date.AddDate(0, 0, 1)

	var tasks []models.Task
	err = tc.DB.Scopes(authz.ParticipantTasks(user.ID)).
		Where("due_date >= ? AND due_date < ?", date, nextDay).
		Find(&tasks).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch tasks", err)
	}

	return c.JSON(utils.SuccessResponse(tasks))
}

// GetDailyReport returns per-day completion counts over a trailing
// window, newest day first. Backs the productivity report view.
func (tc *TaskController) GetDailyReport(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	days, _ := strconv.Atoi(c.Query("days", "7"))
	if days < 1 || days > 90 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	type dayCount struct {
		Day   string `json:"day"`
		Count int64  `json:"count"`
	}

	var report []dayCount
	err := tc.DB.Model(&models.Task{}).
		Scopes(authz.ParticipantTasks(user.ID)).
		Where("status = ? AND completion_time >= ?", models.TaskStatusCompleted, since).
		Select("date(completion_time) as day, count(*) as count").
		Group("date(completion_time)").
		Order("day DESC").
		Scan(&report).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build report", err)
	}

	return c.JSON(utils.SuccessResponse(report))
}

// loadTaskTeam fetches the task's team with members when the task is
// team-scoped; nil for personal tasks.
func (tc *TaskController) loadTaskTeam(task *models.Task) (*models.Team, error) {
	if !task.IsTeamTask() {
		return nil, nil
	}
	var team models.Team
	if err := tc.DB.Preload("Members").First(&team, "id = ?", *task.TeamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}
