package dto

import (
	"financehub/internal/microservices/http-api/models"

	"github.com/shopspring/decimal"
)

// TransactionRequest: payload for creating or updating a transaction
type TransactionRequest struct {
	AllocationID string          `json:"allocationId" binding:"required,uuid"`
	Type         string          `json:"type" binding:"required,oneof=income expense"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	Date         string          `json:"date" binding:"required"`
}

// TransactionListQuery: query params for the transaction list endpoint
type TransactionListQuery struct {
	PaginationQuery
	AllocationID string `form:"allocationId"`
	Month        int    `form:"month" binding:"omitempty,min=1,max=12"`
	Type         string `form:"type" binding:"omitempty,oneof=income expense All"`
}

// TransactionListResponse: paginated transaction list
type TransactionListResponse struct {
	Status            bool                 `json:"status"`
	Data              []models.Transaction `json:"data"`
	Page              int                  `json:"page"`
	TotalPage         int                  `json:"totalPage"`
	TotalTransactions int64                `json:"totalTransactions"`
}
