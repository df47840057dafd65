package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationRequest: payload for creating or updating an allocation
type AllocationRequest struct {
	Name   string          `json:"name" binding:"required,min=5,max=50"`
	Budget decimal.Decimal `json:"budget" binding:"required"`
	Type   string          `json:"type" binding:"required,oneof=income expense"`
}

// AllocationListQuery: query params for the allocation list endpoint
type AllocationListQuery struct {
	PaginationQuery
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

// AllocationItem: one allocation with its month's budget usage figures
type AllocationItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Budget      decimal.Decimal `json:"budget"`
	BudgetUsage decimal.Decimal `json:"budgetUsage"`
	BudgetLeft  decimal.Decimal `json:"budgetLeft"`
	Percentage  int             `json:"percentage"`
	Type        string          `json:"type"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// AllocationListResponse: paginated allocation list
type AllocationListResponse struct {
	Status           bool             `json:"status"`
	Data             []AllocationItem `json:"data"`
	Page             int              `json:"page"`
	TotalPage        int              `json:"totalPage"`
	TotalAllocations int64            `json:"totalAllocations"`
}
