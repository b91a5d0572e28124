package models

import (
	"time"

	"gorm.io/gorm"
)

// Task status values. All transitions between them are allowed.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

// Task priority values.
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task is either personal (TeamID nil, governed by creator/assignee rules)
// or team-scoped (TeamID set, governed by team membership rules).
type Task struct {
	gorm.Model
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Status      string     `gorm:"default:'todo';index" json:"status"`     // todo, in-progress, completed
	Priority    string     `gorm:"default:'medium'" json:"priority"`       // low, medium, high
	DueDate     *time.Time `gorm:"index" json:"due_date,omitempty"`
	Tags        []string   `gorm:"serializer:json" json:"tags"`

	CreatedByID  uint  `gorm:"not null;index" json:"created_by_id"`
	TeamID       *uint `gorm:"index" json:"team_id,omitempty"`
	AssignedToID *uint `gorm:"index" json:"assigned_to_id,omitempty"`

	// Set every time the status becomes completed. Deliberately not
	// cleared when the status moves away from completed again.
	CompletionTime *time.Time `json:"completion_time,omitempty"`

	// Relations
	CreatedBy  User  `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Team       *Team `json:"-"`
	AssignedTo *User `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}

// IsTeamTask reports whether the task is governed by team rules.
func (t *Task) IsTeamTask() bool {
	return t.TeamID != nil
}
