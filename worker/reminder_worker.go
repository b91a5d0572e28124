package worker

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"taskhive/models"
	"taskhive/utils"
)

// ReminderWorker emails assignees about open tasks coming due within
// the next 24 hours. One reminder per task: sent tasks are remembered
// in-process per due date, and the query window keeps the set small.
type ReminderWorker struct {
	DB     *gorm.DB
	Logger *log.Logger

	sent map[uint]time.Time
}

func NewReminderWorker(db *gorm.DB, logger *log.Logger) *ReminderWorker {
	return &ReminderWorker{
		DB:     db,
		Logger: logger,
		sent:   make(map[uint]time.Time),
	}
}

func (rw *ReminderWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	rw.Logger.Println("Reminder worker started")

	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rw.Logger.Println("Reminder worker shutting down...")
			return
		case <-ticker.C:
			rw.processDueTasks()
		}
	}
}

func (rw *ReminderWorker) processDueTasks() {
	now := time.Now()
	windowEnd := now.Add(24 * time.Hour)

	var tasks []models.Task
	err := rw.DB.Preload("AssignedTo").
		Where("status <> ? AND assigned_to_id IS NOT NULL AND due_date BETWEEN ? AND ?",
			models.TaskStatusCompleted, now, windowEnd).
		Find(&tasks).Error
	if err != nil {
		rw.Logger.Printf("Error fetching due tasks: %v", err)
		return
	}

	for _, task := range tasks {
		if due, ok := rw.sent[task.ID]; ok && task.DueDate != nil && due.Equal(*task.DueDate) {
			continue
		}
		if task.AssignedTo == nil || task.DueDate == nil {
			continue
		}
		if err := utils.SendTaskReminderEmail(task.AssignedTo.Email, task.AssignedTo.Name, task.Title, *task.DueDate); err != nil {
			rw.Logger.Printf("Error sending reminder for task %d: %v", task.ID, err)
			continue
		}
		rw.sent[task.ID] = *task.DueDate
	}

	// Drop entries whose due date has passed
	for id, due := range rw.sent {
		if due.Before(now) {
			delete(rw.sent, id)
		}
	}
}
