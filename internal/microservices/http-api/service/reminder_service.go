package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"financehub/internal/cache"
	"financehub/internal/jobs"
	"financehub/internal/microservices/http-api/dto"
	"financehub/internal/microservices/http-api/models"
	"financehub/internal/microservices/http-api/repository"
	"financehub/pkg/timeserver"

	"gorm.io/gorm"
)

// ReminderService owns the reminder lifecycle. Every create/update keeps a
// single pending delayed job in step with the stored due date; delete
// cancels the job so it cannot fire for a dead reminder.
type ReminderService interface {
	List(ctx context.Context, userID string, q dto.ReminderListQuery) (*dto.ReminderListResponse, error)
	Detail(ctx context.Context, id, userID string) (*models.Reminder, error)
	// Create returns created=false when an identical reminder already
	// exists; that is a success to the caller, not an error (double-submit
	// protection).
	Create(ctx context.Context, userID string, req dto.ReminderRequest) (created bool, err error)
	// Update returns changed=false for a body identical to the stored
	// fields; no job is touched in that case.
	Update(ctx context.Context, id, userID string, req dto.ReminderRequest) (changed bool, err error)
	Delete(ctx context.Context, id, userID string) error
}

type reminderService struct {
	reminderRepo repository.ReminderRepository
	queue        jobs.Queue
	cache        *cache.Cache
	listTTL      time.Duration
	maxAttempts  int
}

func NewReminderService(
	reminderRepo repository.ReminderRepository,
	queue jobs.Queue,
	c *cache.Cache,
	listTTL time.Duration,
	maxAttempts int,
) ReminderService {
	return &reminderService{
		reminderRepo: reminderRepo,
		queue:        queue,
		cache:        c,
		listTTL:      listTTL,
		maxAttempts:  maxAttempts,
	}
}

func reminderCachePrefix(userID string) string {
	return fmt.Sprintf("reminder:%s", userID)
}

// parseDueDate reads the ISO-8601 payload value on the server clock.
func parseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(timeserver.Zone()), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", raw, timeserver.Zone())
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func (s *reminderService) List(ctx context.Context, userID string, q dto.ReminderListQuery) (*dto.ReminderListResponse, error) {
	cacheKey := fmt.Sprintf("reminder:%s:%s:%s:%d:%d", userID, q.AllocationID, q.Search, q.Page, q.PerPage)

	var cached dto.ReminderListResponse
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	// lists are scoped to the current server-time month
	from, to := timeserver.MonthWindow(timeserver.Now())
	reminders, total, err := s.reminderRepo.ListByUser(ctx, userID, q.Search, q.AllocationID, from, to, q.Page, q.PerPage)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ReminderItem, 0, len(reminders))
	for _, r := range reminders {
		item := dto.ReminderItem{
			ID:           r.ID,
			Title:        r.Title,
			Amount:       r.Amount,
			DueDate:      r.DueDate,
			AllocationID: r.AllocationID,
		}
		if r.Allocation != nil {
			name := r.Allocation.Name
			item.AllocationName = &name
		}
		items = append(items, item)
	}

	resp := &dto.ReminderListResponse{
		Status:        true,
		Data:          items,
		TotalPage:     totalPages(total, q.PerPage),
		TotalReminder: total,
	}

	_ = s.cache.SetJSON(ctx, cacheKey, resp, s.listTTL)
	return resp, nil
}

func (s *reminderService) Detail(ctx context.Context, id, userID string) (*models.Reminder, error) {
	reminder, err := s.reminderRepo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return reminder, nil
}

func (s *reminderService) Create(ctx context.Context, userID string, req dto.ReminderRequest) (bool, error) {
	if !req.Amount.IsPositive() {
		return false, ErrInvalidAmount
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return false, ErrInvalidDate
	}

	now := timeserver.Now()
	if !dueDate.After(now) {
		return false, ErrPastDueDate
	}

	// double-submit protection: identical tuple means success, no new row
	existing, err := s.reminderRepo.FindDuplicate(ctx, userID, req.AllocationID, req.Title, req.Amount, dueDate)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	reminder := &models.Reminder{
		UserID:       userID,
		AllocationID: req.AllocationID,
		Title:        req.Title,
		Amount:       req.Amount,
		DueDate:      dueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		return false, err
	}

	_ = s.cache.InvalidatePrefix(ctx, reminderCachePrefix(userID))

	// delay = dueDate - now; retry policy is the queue's fixed 5s backoff
	if err := s.queue.Enqueue(ctx, reminder.ID, userID, dueDate, s.maxAttempts); err != nil {
		// stored reminder and job diverge here; surfaced rather than hidden
		return true, fmt.Errorf("reminder stored but scheduling failed: %w", err)
	}

	return true, nil
}

func (s *reminderService) Update(ctx context.Context, id, userID string, req dto.ReminderRequest) (bool, error) {
	existing, err := s.reminderRepo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	if !req.Amount.IsPositive() {
		return false, ErrInvalidAmount
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return false, ErrInvalidDate
	}
	now := timeserver.Now()
	if !dueDate.After(now) {
		return false, ErrPastDueDate
	}

	// diff against stored values; identical body is a no-op success
	fields := map[string]any{}
	if req.AllocationID != existing.AllocationID {
		fields["allocation_id"] = req.AllocationID
	}
	if req.Title != existing.Title {
		fields["title"] = req.Title
	}
	if !req.Amount.Equal(existing.Amount) {
		fields["amount"] = req.Amount
	}
	if !dueDate.Equal(existing.DueDate) {
		fields["due_date"] = dueDate
	}
	if len(fields) == 0 {
		return false, nil
	}

	// the new tuple must not collide with a different reminder
	duplicate, err := s.reminderRepo.FindDuplicate(ctx, userID, req.AllocationID, req.Title, req.Amount, dueDate)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if duplicate != nil && duplicate.ID != existing.ID {
		return false, ErrDuplicateReminder
	}

	fields["updated_at"] = now
	if err := s.reminderRepo.Update(ctx, id, fields); err != nil {
		return false, err
	}

	_ = s.cache.InvalidatePrefix(ctx, reminderCachePrefix(userID))

	// cancel-then-enqueue runs in one transaction inside Replace, so two
	// concurrent jobs for the same reminder cannot coexist
	if err := s.queue.Replace(ctx, id, userID, dueDate, s.maxAttempts); err != nil {
		return true, fmt.Errorf("reminder updated but rescheduling failed: %w", err)
	}

	return true, nil
}

func (s *reminderService) Delete(ctx context.Context, id, userID string) error {
	deleted, err := s.reminderRepo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	_ = s.cache.InvalidatePrefix(ctx, reminderCachePrefix(userID))

	// cancel the pending job so it cannot fire for a deleted reminder; a
	// job already claimed by the worker fails at its reminder lookup instead
	if err := s.queue.Cancel(ctx, id); err != nil {
		return fmt.Errorf("reminder deleted but job cancellation failed: %w", err)
	}

	return nil
}

// totalPages mirrors ceil(total / perPage) with 0 for an empty result.
func totalPages(total int64, perPage int) int {
	if perPage <= 0 || total == 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
