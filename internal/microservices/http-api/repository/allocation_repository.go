package repository

import (
	"context"

	"financehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type AllocationRepository interface {
	Create(ctx context.Context, allocation *models.Allocation) error
	FindByID(ctx context.Context, id string) (*models.Allocation, error)
	FindByIDAndUser(ctx context.Context, id, userID string) (*models.Allocation, error)
	FindByNameAndUser(ctx context.Context, name, userID string) (*models.Allocation, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id, userID string) (bool, error)
	ListByUser(ctx context.Context, userID, search string, page, perPage int) ([]models.Allocation, int64, error)
}

type allocationRepository struct {
	db *gorm.DB
}

func NewAllocationRepository(db *gorm.DB) AllocationRepository {
	return &allocationRepository{db: db}
}

func (r *allocationRepository) Create(ctx context.Context, allocation *models.Allocation) error {
	return r.db.WithContext(ctx).Create(allocation).Error
}

func (r *allocationRepository) FindByID(ctx context.Context, id string) (*models.Allocation, error) {
	var allocation models.Allocation
	if err := r.db.WithContext(ctx).First(&allocation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &allocation, nil
}

func (r *allocationRepository) FindByIDAndUser(ctx context.Context, id, userID string) (*models.Allocation, error) {
	var allocation models.Allocation
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&allocation).Error; err != nil {
		return nil, err
	}
	return &allocation, nil
}

func (r *allocationRepository) FindByNameAndUser(ctx context.Context, name, userID string) (*models.Allocation, error) {
	var allocation models.Allocation
	if err := r.db.WithContext(ctx).
		Where("name = ? AND user_id = ?", name, userID).
		First(&allocation).Error; err != nil {
		return nil, err
	}
	return &allocation, nil
}

func (r *allocationRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Allocation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *allocationRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Allocation{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *allocationRepository) ListByUser(ctx context.Context, userID, search string, page, perPage int) ([]models.Allocation, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Allocation{}).
		Where("user_id = ?", userID)

	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var allocations []models.Allocation
	err := query.
		Order("name ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&allocations).Error
	return allocations, total, err
}
