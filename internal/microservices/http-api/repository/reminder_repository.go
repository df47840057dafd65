package repository

import (
	"context"
	"time"

	"financehub/internal/microservices/http-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReminderRepository interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	FindByID(ctx context.Context, id string) (*models.Reminder, error)
	FindByIDAndUser(ctx context.Context, id, userID string) (*models.Reminder, error)
	// FindDuplicate looks up a reminder with the exact same
	// (owner, allocation, title, amount, dueDate) tuple.
	FindDuplicate(ctx context.Context, userID, allocationID, title string, amount decimal.Decimal, dueDate time.Time) (*models.Reminder, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id, userID string) (bool, error)
	ListByUser(ctx context.Context, userID, search, allocationID string, from, to time.Time, page, perPage int) ([]models.Reminder, int64, error)
}

type reminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	return r.db.WithContext(ctx).Create(reminder).Error
}

func (r *reminderRepository) FindByID(ctx context.Context, id string) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := r.db.WithContext(ctx).First(&reminder, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *reminderRepository) FindByIDAndUser(ctx context.Context, id, userID string) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&reminder).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *reminderRepository) FindDuplicate(ctx context.Context, userID, allocationID, title string, amount decimal.Decimal, dueDate time.Time) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND allocation_id = ? AND title = ? AND amount = ? AND due_date = ?",
			userID, allocationID, title, amount, dueDate).
		First(&reminder).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *reminderRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *reminderRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Reminder{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// listQuery builds a fresh filtered chain; Count and Find each get their
// own so gorm statement state is never shared between finishers.
func (r *reminderRepository) listQuery(ctx context.Context, userID, search, allocationID string, from, to time.Time) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("user_id = ?", userID).
		Where("due_date >= ? AND due_date < ?", from, to)

	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if allocationID != "" && allocationID != "All" {
		query = query.Where("allocation_id = ?", allocationID)
	}
	return query
}

func (r *reminderRepository) ListByUser(ctx context.Context, userID, search, allocationID string, from, to time.Time, page, perPage int) ([]models.Reminder, int64, error) {
	var total int64
	if err := r.listQuery(ctx, userID, search, allocationID, from, to).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reminders []models.Reminder
	err := r.listQuery(ctx, userID, search, allocationID, from, to).
		Preload("Allocation").
		Order("title ASC, due_date ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&reminders).Error
	return reminders, total, err
}
