package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a single dated amount posted against an allocation.
type Transaction struct {
	ID           string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AllocationID string          `gorm:"type:uuid;not null;index" json:"allocation_id"`
	Description  string          `gorm:"not null" json:"description"`
	Type         string          `gorm:"not null" json:"type"` // income, expense
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Date         time.Time       `gorm:"not null" json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Allocation *Allocation `gorm:"foreignKey:AllocationID" json:"allocation,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return
}

func (Transaction) TableName() string {
	return "transactions"
}
