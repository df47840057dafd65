package repository

import (
	"context"
	"time"

	"financehub/internal/microservices/http-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionFilter narrows the transaction list query. Zero values mean
// "no filter" for that field.
type TransactionFilter struct {
	Search       string
	AllocationID string
	Month        int // 1-12, matched against the transaction date
	Type         string
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	FindByIDAndUser(ctx context.Context, id, userID string) (*models.Transaction, error)
	FindDuplicate(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id, userID string) (bool, error)
	ListByUser(ctx context.Context, userID string, filter TransactionFilter, page, perPage int) ([]models.Transaction, int64, error)
	// SumByAllocationBetween totals amounts posted against one allocation in
	// [from, to], for budget checks.
	SumByAllocationBetween(ctx context.Context, userID, allocationID string, from, to time.Time) (decimal.Decimal, error)
	SumByUserType(ctx context.Context, userID, txType string) (decimal.Decimal, error)
	SumByUserTypeBetween(ctx context.Context, userID, txType string, from, to time.Time) (decimal.Decimal, error)
	RecentByUser(ctx context.Context, userID string, limit int) ([]models.Transaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) FindByIDAndUser(ctx context.Context, id, userID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&transaction).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepository) FindDuplicate(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	var existing models.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND allocation_id = ? AND type = ? AND amount = ? AND description = ? AND date = ?",
			t.UserID, t.AllocationID, t.Type, t.Amount, t.Description, t.Date).
		First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *transactionRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *transactionRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// listQuery builds a fresh filtered chain; Count and Find each get their
// own so gorm statement state is never shared between finishers.
func (r *transactionRepository) listQuery(ctx context.Context, userID string, filter TransactionFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ?", userID)

	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.AllocationID != "" && filter.AllocationID != "All" {
		query = query.Where("allocation_id = ?", filter.AllocationID)
	}
	if filter.Month >= 1 && filter.Month <= 12 {
		query = query.Where("extract(month from date) = ?", filter.Month)
	}
	if filter.Type != "" && filter.Type != "All" {
		query = query.Where("type = ?", filter.Type)
	}
	return query
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID string, filter TransactionFilter, page, perPage int) ([]models.Transaction, int64, error) {
	var total int64
	if err := r.listQuery(ctx, userID, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []models.Transaction
	err := r.listQuery(ctx, userID, filter).
		Preload("Allocation").
		Order("description DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&transactions).Error
	return transactions, total, err
}

func (r *transactionRepository) SumByAllocationBetween(ctx context.Context, userID, allocationID string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ? AND allocation_id = ? AND date >= ? AND date <= ?", userID, allocationID, from, to).
		Select("coalesce(sum(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *transactionRepository) SumByUserType(ctx context.Context, userID, txType string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, txType).
		Select("coalesce(sum(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *transactionRepository) SumByUserTypeBetween(ctx context.Context, userID, txType string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND date >= ? AND date <= ?", userID, txType, from, to).
		Select("coalesce(sum(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *transactionRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Allocation").
		Order("date DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}
