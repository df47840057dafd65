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

	"gorm.io/gorm"
)

type TransactionService interface {
	List(ctx context.Context, userID string, q dto.TransactionListQuery) (*dto.TransactionListResponse, error)
	Detail(ctx context.Context, id, userID string) (*models.Transaction, error)
	Create(ctx context.Context, userID string, req dto.TransactionRequest) error
	Update(ctx context.Context, id, userID string, req dto.TransactionRequest) error
	Delete(ctx context.Context, id, userID string) error
}

type transactionService struct {
	transactionRepo repository.TransactionRepository
	allocationRepo  repository.AllocationRepository
	cache           *cache.Cache
	listTTL         time.Duration
}

func NewTransactionService(
	transactionRepo repository.TransactionRepository,
	allocationRepo repository.AllocationRepository,
	c *cache.Cache,
	listTTL time.Duration,
) TransactionService {
	return &transactionService{
		transactionRepo: transactionRepo,
		allocationRepo:  allocationRepo,
		cache:           c,
		listTTL:         listTTL,
	}
}

// A transaction write changes the allocation usage figures and the
// dashboard cards too, so all three cache families go.
func (s *transactionService) invalidate(ctx context.Context, userID string) {
	prefixes := []string{
		fmt.Sprintf("transactions:%s", userID),
		fmt.Sprintf("dashboard:%s", userID),
	}
	prefixes = append(prefixes, allocationCachePrefixes(userID)...)
	for _, prefix := range prefixes {
		_ = s.cache.InvalidatePrefix(ctx, prefix)
	}
}

func parseTxDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(timeserver.Zone()), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", raw, timeserver.Zone()); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, timeserver.Zone())
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func (s *transactionService) List(ctx context.Context, userID string, q dto.TransactionListQuery) (*dto.TransactionListResponse, error) {
	cacheKey := fmt.Sprintf("transactions:%s:%s:%s:%d:%s:%d:%d",
		userID, q.AllocationID, q.Type, q.Month, q.Search, q.Page, q.PerPage)

	var cached dto.TransactionListResponse
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	filter := repository.TransactionFilter{
		Search:       q.Search,
		AllocationID: q.AllocationID,
		Month:        q.Month,
		Type:         q.Type,
	}
	transactions, total, err := s.transactionRepo.ListByUser(ctx, userID, filter, q.Page, q.PerPage)
	if err != nil {
		return nil, err
	}

	resp := &dto.TransactionListResponse{
		Status:            true,
		Data:              transactions,
		Page:              q.Page,
		TotalPage:         totalPages(total, q.PerPage),
		TotalTransactions: total,
	}

	_ = s.cache.SetJSON(ctx, cacheKey, resp, s.listTTL)
	return resp, nil
}

func (s *transactionService) Detail(ctx context.Context, id, userID string) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// checkBudget rejects an expense that would push the allocation's spending
// for the transaction's month past its budget. excludeID skips the row
// being updated so its old amount does not count against itself.
func (s *transactionService) checkBudget(ctx context.Context, allocation *models.Allocation, t *models.Transaction, excludeID string) error {
	if t.Type != models.TypeExpense {
		return nil
	}

	from, to := timeserver.MonthWindow(t.Date)
	used, err := s.transactionRepo.SumByAllocationBetween(ctx, t.UserID, t.AllocationID, from, to.Add(-time.Second))
	if err != nil {
		return err
	}
	if excludeID != "" {
		existing, err := s.transactionRepo.FindByIDAndUser(ctx, excludeID, t.UserID)
		if err == nil && existing.AllocationID == t.AllocationID {
			_, oldTo := timeserver.MonthWindow(existing.Date)
			if oldTo.Equal(to) {
				used = used.Sub(existing.Amount)
			}
		}
	}
	if used.Add(t.Amount).GreaterThan(allocation.Budget) {
		return ErrBudgetExceeded
	}
	return nil
}

func (s *transactionService) Create(ctx context.Context, userID string, req dto.TransactionRequest) error {
	if !req.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	date, err := parseTxDate(req.Date)
	if err != nil {
		return ErrInvalidDate
	}

	allocation, err := s.allocationRepo.FindByIDAndUser(ctx, req.AllocationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAllocationMismatch
		}
		return err
	}
	if allocation.Type != req.Type {
		return ErrAllocationMismatch
	}

	now := timeserver.Now()
	transaction := &models.Transaction{
		UserID:       userID,
		AllocationID: req.AllocationID,
		Description:  req.Description,
		Type:         req.Type,
		Amount:       req.Amount,
		Date:         date,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if existing, _ := s.transactionRepo.FindDuplicate(ctx, transaction); existing != nil {
		return ErrDuplicateTx
	}
	if err := s.checkBudget(ctx, allocation, transaction, ""); err != nil {
		return err
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *transactionService) Update(ctx context.Context, id, userID string, req dto.TransactionRequest) error {
	existing, err := s.transactionRepo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !req.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	date, err := parseTxDate(req.Date)
	if err != nil {
		return ErrInvalidDate
	}

	allocation, err := s.allocationRepo.FindByIDAndUser(ctx, req.AllocationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAllocationMismatch
		}
		return err
	}
	if allocation.Type != req.Type {
		return ErrAllocationMismatch
	}

	fields := map[string]any{}
	if req.AllocationID != existing.AllocationID {
		fields["allocation_id"] = req.AllocationID
	}
	if req.Description != existing.Description {
		fields["description"] = req.Description
	}
	if req.Type != existing.Type {
		fields["type"] = req.Type
	}
	if !req.Amount.Equal(existing.Amount) {
		fields["amount"] = req.Amount
	}
	if !date.Equal(existing.Date) {
		fields["date"] = date
	}
	if len(fields) == 0 {
		return nil
	}

	candidate := &models.Transaction{
		UserID:       userID,
		AllocationID: req.AllocationID,
		Description:  req.Description,
		Type:         req.Type,
		Amount:       req.Amount,
		Date:         date,
	}
	if err := s.checkBudget(ctx, allocation, candidate, id); err != nil {
		return err
	}

	fields["updated_at"] = timeserver.Now()
	if err := s.transactionRepo.Update(ctx, id, fields); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *transactionService) Delete(ctx context.Context, id, userID string) error {
	deleted, err := s.transactionRepo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.invalidate(ctx, userID)
	return nil
}
