package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification statuses
const (
	StatusUnread = "unread"
	StatusRead   = "read"
)

// Notification is created by the job worker when a reminder fires. It keeps
// its reminder_id even after the source reminder is deleted (soft orphan);
// reminder-derived display fields degrade to null in that case.
type Notification struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	ReminderID string    `gorm:"type:uuid;not null" json:"reminder_id"`
	Status     string    `gorm:"not null;default:'unread'" json:"status"` // unread, read
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Reminder *Reminder `gorm:"foreignKey:ReminderID" json:"reminder,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}

func (Notification) TableName() string {
	return "notifications"
}
