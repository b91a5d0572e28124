package models

import "gorm.io/gorm"

// Message is a task-scoped chat message between the task's two
// participants (creator and assignee). The receiver is always the
// participant who is not the sender.
type Message struct {
	gorm.Model
	TaskID     uint   `gorm:"not null;index" json:"task_id"`
	SenderID   uint   `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint   `gorm:"not null;index" json:"receiver_id"`
	Text       string `gorm:"not null" json:"text"`
	IsRead     bool   `gorm:"default:false;index" json:"is_read"`

	// Relations
	Task     Task `json:"-"`
	Sender   User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`
}
