package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReminderRequest: payload for creating or updating a reminder.
// DueDate is an ISO-8601 string, interpreted on the server clock (UTC+7).
type ReminderRequest struct {
	AllocationID string          `json:"allocationId" binding:"required,uuid"`
	Title        string          `json:"title" binding:"required,min=5,max=50"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	DueDate      string          `json:"dueDate" binding:"required"`
}

// ReminderListQuery: query params for the reminder list endpoint
type ReminderListQuery struct {
	PaginationQuery
	AllocationID string `form:"allocationId"`
}

// ReminderItem: one reminder as shaped for list responses
type ReminderItem struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        time.Time       `json:"dueDate"`
	AllocationID   string          `json:"allocationId"`
	AllocationName *string         `json:"allocationName"`
}

// ReminderListResponse: paginated reminder list
type ReminderListResponse struct {
	Status        bool           `json:"status"`
	Data          []ReminderItem `json:"data"`
	TotalPage     int            `json:"totalPage"`
	TotalReminder int64          `json:"totalReminder"`
}
