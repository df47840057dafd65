package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"financehub/internal/cache"
	"financehub/internal/microservices/http-api/dto"
	"financehub/internal/microservices/http-api/models"
	"financehub/internal/microservices/http-api/repository"
	"financehub/pkg/timeserver"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AllocationService interface {
	List(ctx context.Context, userID string, q dto.AllocationListQuery) (*dto.AllocationListResponse, error)
	Detail(ctx context.Context, id, userID string) (*dto.AllocationItem, error)
	Create(ctx context.Context, userID string, req dto.AllocationRequest) error
	Update(ctx context.Context, id, userID string, req dto.AllocationRequest) error
	Delete(ctx context.Context, id, userID string) error
}

type allocationService struct {
	allocationRepo  repository.AllocationRepository
	transactionRepo repository.TransactionRepository
	cache           *cache.Cache
	listTTL         time.Duration
}

func NewAllocationService(
	allocationRepo repository.AllocationRepository,
	transactionRepo repository.TransactionRepository,
	c *cache.Cache,
	listTTL time.Duration,
) AllocationService {
	return &allocationService{
		allocationRepo:  allocationRepo,
		transactionRepo: transactionRepo,
		cache:           c,
		listTTL:         listTTL,
	}
}

func allocationCachePrefixes(userID string) []string {
	return []string{
		fmt.Sprintf("allocations:%s", userID),
		fmt.Sprintf("allocations-detail:%s", userID),
	}
}

func (s *allocationService) invalidate(ctx context.Context, userID string) {
	for _, prefix := range allocationCachePrefixes(userID) {
		_ = s.cache.InvalidatePrefix(ctx, prefix)
	}
}

func (s *allocationService) List(ctx context.Context, userID string, q dto.AllocationListQuery) (*dto.AllocationListResponse, error) {
	month := q.Month
	if month == 0 {
		month = int(timeserver.Now().Month())
	}
	cacheKey := fmt.Sprintf("allocations:%s:%d:%d:%d:%s", userID, month, q.Page, q.PerPage, q.Search)

	var cached dto.AllocationListResponse
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	allocations, total, err := s.allocationRepo.ListByUser(ctx, userID, q.Search, q.Page, q.PerPage)
	if err != nil {
		return nil, err
	}

	year := timeserver.Now().Year()
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timeserver.Zone())
	to := from.AddDate(0, 1, 0).Add(-time.Second)

	items := make([]dto.AllocationItem, 0, len(allocations))
	for _, a := range allocations {
		usage, err := s.transactionRepo.SumByAllocationBetween(ctx, userID, a.ID, from, to)
		if err != nil {
			return nil, err
		}
		items = append(items, shapeAllocation(&a, usage))
	}

	resp := &dto.AllocationListResponse{
		Status:           true,
		Data:             items,
		Page:             q.Page,
		TotalPage:        totalPages(total, q.PerPage),
		TotalAllocations: total,
	}

	_ = s.cache.SetJSON(ctx, cacheKey, resp, s.listTTL)
	return resp, nil
}

// shapeAllocation computes the month's usage figures for one allocation.
func shapeAllocation(a *models.Allocation, usage decimal.Decimal) dto.AllocationItem {
	budget := a.Budget
	var left decimal.Decimal
	var percentage int

	capped := decimal.Min(usage, budget)
	if a.Type == models.TypeIncome {
		if usage.GreaterThan(budget) {
			left = decimal.Zero
		} else {
			left = budget.Sub(usage)
		}
	} else {
		left = budget.Sub(capped)
	}
	if budget.IsPositive() {
		base := usage
		if a.Type == models.TypeExpense {
			base = capped
		}
		percentage = int(base.Div(budget).Mul(decimal.NewFromInt(100)).Ceil().IntPart())
	}

	return dto.AllocationItem{
		ID:          a.ID,
		Name:        a.Name,
		Budget:      budget,
		BudgetUsage: usage,
		BudgetLeft:  left,
		Percentage:  percentage,
		Type:        a.Type,
		CreatedAt:   a.CreatedAt,
	}
}

func (s *allocationService) Detail(ctx context.Context, id, userID string) (*dto.AllocationItem, error) {
	cacheKey := fmt.Sprintf("allocations-detail:%s:%s", userID, id)

	var cached dto.AllocationItem
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	allocation, err := s.allocationRepo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	item := dto.AllocationItem{
		ID:        allocation.ID,
		Name:      allocation.Name,
		Budget:    allocation.Budget,
		Type:      allocation.Type,
		CreatedAt: allocation.CreatedAt,
	}

	_ = s.cache.SetJSON(ctx, cacheKey, item, s.listTTL)
	return &item, nil
}

func (s *allocationService) Create(ctx context.Context, userID string, req dto.AllocationRequest) error {
	if !req.Budget.IsPositive() {
		return ErrInvalidAmount
	}
	if existing, _ := s.allocationRepo.FindByNameAndUser(ctx, req.Name, userID); existing != nil {
		return ErrAllocationExists
	}

	now := timeserver.Now()
	allocation := &models.Allocation{
		UserID:    userID,
		Name:      req.Name,
		Budget:    req.Budget,
		Type:      req.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.allocationRepo.Create(ctx, allocation); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *allocationService) Update(ctx context.Context, id, userID string, req dto.AllocationRequest) error {
	if !req.Budget.IsPositive() {
		return ErrInvalidAmount
	}
	existing, err := s.allocationRepo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	fields := map[string]any{}
	if req.Name != existing.Name {
		fields["name"] = req.Name
	}
	if !req.Budget.Equal(existing.Budget) {
		fields["budget"] = req.Budget
	}
	if req.Type != existing.Type {
		fields["type"] = req.Type
	}
	if len(fields) == 0 {
		return nil
	}

	fields["updated_at"] = timeserver.Now()
	if err := s.allocationRepo.Update(ctx, id, fields); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *allocationService) Delete(ctx context.Context, id, userID string) error {
	deleted, err := s.allocationRepo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.invalidate(ctx, userID)
	return nil
}
