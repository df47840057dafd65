package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Allocation types
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Allocation is a named budget bucket of type income or expense.
type Allocation struct {
	ID        string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string          `gorm:"not null" json:"name"`
	Budget    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"budget"`
	Type      string          `gorm:"not null" json:"type"` // income, expense
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (a *Allocation) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

func (Allocation) TableName() string {
	return "allocations"
}
