package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reminder is a scheduled future obligation tied to an allocation. Creating
// or rescheduling one also (re)schedules a delayed job keyed by its ID.
type Reminder struct {
	ID           string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AllocationID string          `gorm:"type:uuid;not null;index" json:"allocation_id"`
	Title        string          `gorm:"not null" json:"title"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	DueDate      time.Time       `gorm:"not null" json:"due_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Allocation *Allocation `gorm:"foreignKey:AllocationID" json:"allocation,omitempty"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (Reminder) TableName() string {
	return "reminders"
}
