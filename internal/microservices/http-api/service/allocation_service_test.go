package service

import (
	"context"
	"testing"
	"time"

	"financehub/internal/microservices/http-api/dto"
	"financehub/internal/microservices/http-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestShapeAllocation(t *testing.T) {
	budget := decimal.NewFromInt(1000)

	t.Run("ExpenseWithinBudget", func(t *testing.T) {
		a := &models.Allocation{Name: "Groceries", Type: models.TypeExpense, Budget: budget}
		item := shapeAllocation(a, decimal.NewFromInt(250))

		assert.True(t, item.BudgetLeft.Equal(decimal.NewFromInt(750)))
		assert.Equal(t, 25, item.Percentage)
	})

	t.Run("ExpenseOverBudgetCapsAtFull", func(t *testing.T) {
		a := &models.Allocation{Name: "Groceries", Type: models.TypeExpense, Budget: budget}
		item := shapeAllocation(a, decimal.NewFromInt(1300))

		assert.True(t, item.BudgetLeft.IsZero())
		assert.Equal(t, 100, item.Percentage)
		// usage itself is reported uncapped
		assert.True(t, item.BudgetUsage.Equal(decimal.NewFromInt(1300)))
	})

	t.Run("IncomeOverTargetLeavesZero", func(t *testing.T) {
		a := &models.Allocation{Name: "Salary", Type: models.TypeIncome, Budget: budget}
		item := shapeAllocation(a, decimal.NewFromInt(1200))

		assert.True(t, item.BudgetLeft.IsZero())
		assert.Equal(t, 120, item.Percentage)
	})

	t.Run("PercentageRoundsUp", func(t *testing.T) {
		a := &models.Allocation{Name: "Groceries", Type: models.TypeExpense, Budget: budget}
		item := shapeAllocation(a, decimal.NewFromFloat(0.01))

		assert.Equal(t, 1, item.Percentage)
	})

	t.Run("ZeroBudgetDoesNotDivide", func(t *testing.T) {
		a := &models.Allocation{Name: "Misc", Type: models.TypeExpense, Budget: decimal.Zero}
		item := shapeAllocation(a, decimal.NewFromInt(50))

		assert.Equal(t, 0, item.Percentage)
	})
}

func TestPercentChange(t *testing.T) {
	t.Run("NoPreviousMonth", func(t *testing.T) {
		pct, dir := percentChange(decimal.NewFromInt(100), decimal.Zero)
		assert.Nil(t, pct)
		assert.Nil(t, dir)
	})

	t.Run("Increase", func(t *testing.T) {
		pct, dir := percentChange(decimal.NewFromInt(150), decimal.NewFromInt(100))
		assert.Equal(t, "50%", *pct)
		assert.Equal(t, "plus", *dir)
	})

	t.Run("Decrease", func(t *testing.T) {
		pct, dir := percentChange(decimal.NewFromInt(80), decimal.NewFromInt(100))
		assert.Equal(t, "20%", *pct)
		assert.Equal(t, "minus", *dir)
	})
}

func TestAllocationBudgetValidation(t *testing.T) {
	userID := "user-1"

	newSvc := func(allocRepo *MockAllocationRepository) AllocationService {
		return NewAllocationService(allocRepo, new(MockTransactionRepository), nil, 5*time.Minute)
	}

	t.Run("CreateRejectsNegativeBudget", func(t *testing.T) {
		allocRepo := new(MockAllocationRepository)
		svc := newSvc(allocRepo)

		err := svc.Create(context.Background(), userID, dto.AllocationRequest{
			Name: "Groceries budget", Budget: decimal.NewFromInt(-500), Type: models.TypeExpense,
		})

		assert.ErrorIs(t, err, ErrInvalidAmount)
		allocRepo.AssertNotCalled(t, "Create")
	})

	t.Run("CreateRejectsZeroBudget", func(t *testing.T) {
		allocRepo := new(MockAllocationRepository)
		svc := newSvc(allocRepo)

		err := svc.Create(context.Background(), userID, dto.AllocationRequest{
			Name: "Groceries budget", Budget: decimal.Zero, Type: models.TypeExpense,
		})

		assert.ErrorIs(t, err, ErrInvalidAmount)
		allocRepo.AssertNotCalled(t, "Create")
	})

	t.Run("UpdateRejectsNegativeBudget", func(t *testing.T) {
		allocRepo := new(MockAllocationRepository)
		svc := newSvc(allocRepo)

		err := svc.Update(context.Background(), "alloc-1", userID, dto.AllocationRequest{
			Name: "Groceries budget", Budget: decimal.NewFromInt(-500), Type: models.TypeExpense,
		})

		assert.ErrorIs(t, err, ErrInvalidAmount)
		allocRepo.AssertNotCalled(t, "FindByIDAndUser")
		allocRepo.AssertNotCalled(t, "Update")
	})

	t.Run("CreateAcceptsPositiveBudget", func(t *testing.T) {
		allocRepo := new(MockAllocationRepository)
		svc := newSvc(allocRepo)

		allocRepo.On("FindByNameAndUser", mock.Anything, "Groceries budget", userID).Return(nil, nil)
		allocRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Allocation) bool {
			return a.UserID == userID && a.Budget.Equal(decimal.NewFromInt(500))
		})).Return(nil)

		err := svc.Create(context.Background(), userID, dto.AllocationRequest{
			Name: "Groceries budget", Budget: decimal.NewFromInt(500), Type: models.TypeExpense,
		})

		assert.NoError(t, err)
		allocRepo.AssertExpectations(t)
	})
}
