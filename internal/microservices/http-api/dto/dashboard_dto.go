package dto

import "github.com/shopspring/decimal"

// CardData: one summary card on the dashboard
type CardData struct {
	Title      string          `json:"title"`
	Value      decimal.Decimal `json:"value"`
	Percentage *string         `json:"percentage"`
	Type       *string         `json:"type"` // plus, minus
}

// MonthOverview: income/expense totals for one month of the 6-month chart
type MonthOverview struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// RecentTransaction: one row of the recent-transactions widget
type RecentTransaction struct {
	Date           string          `json:"date"`
	AllocationName string          `json:"allocationName"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
}

// DashboardResponse: the whole dashboard payload
type DashboardResponse struct {
	CardData           []CardData          `json:"cardData"`
	MonthlyOverview    []MonthOverview     `json:"monthlyOverview"`
	RecentTransactions []RecentTransaction `json:"recentTransactions"`
}
