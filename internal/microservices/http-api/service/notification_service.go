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
	"financehub/internal/microservices/websocket"
	"financehub/pkg/timeserver"

	"gorm.io/gorm"
)

// Publisher delivers an event into a push-channel room. Satisfied by
// *websocket.Hub; kept as an interface so tests can observe deliveries.
type Publisher interface {
	Publish(roomID, event string, data any)
}

type NotificationService interface {
	List(ctx context.Context, userID string, page, perPage int) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id, userID string) error
	// Bulk applies action ("read" or "delete") to all of the owner's
	// notifications.
	Bulk(ctx context.Context, userID, action string) error
	// UnreadCount backs the badge counter; never cached, it must move the
	// instant a notification fires or is read.
	UnreadCount(ctx context.Context, userID string) (int64, error)
	// DispatchReminder is the delayed-job handler: invoked by the queue
	// worker when a reminder comes due.
	DispatchReminder(ctx context.Context, job *jobs.Job) error
	// PublishTest fires a newNotification event straight into the caller's
	// room, bypassing the queue, so clients can verify the channel is live.
	PublishTest(userID string)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	reminderRepo     repository.ReminderRepository
	hub              Publisher
	cache            *cache.Cache
	listTTL          time.Duration
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	reminderRepo repository.ReminderRepository,
	hub Publisher,
	c *cache.Cache,
	listTTL time.Duration,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		reminderRepo:     reminderRepo,
		hub:              hub,
		cache:            c,
		listTTL:          listTTL,
	}
}

func notificationCachePrefix(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

func (s *notificationService) List(ctx context.Context, userID string, page, perPage int) (*dto.NotificationListResponse, error) {
	cacheKey := fmt.Sprintf("notifications:%s:%d:%d", userID, page, perPage)

	var cached dto.NotificationListResponse
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	notifications, total, err := s.notificationRepo.ListByUser(ctx, userID, page, perPage)
	if err != nil {
		return nil, err
	}

	items := make([]dto.NotificationItem, 0, len(notifications))
	for _, n := range notifications {
		item := dto.NotificationItem{
			ID:         n.ID,
			ReminderID: n.ReminderID,
			Status:     n.Status,
			CreatedAt:  n.CreatedAt,
		}
		// reminder-derived fields stay null when the source reminder has
		// been deleted since the notification fired
		if n.Reminder != nil {
			title := n.Reminder.Title
			item.ReminderTitle = &title
			if n.Reminder.Allocation != nil {
				name := n.Reminder.Allocation.Name
				item.AllocationName = &name
			}
		}
		items = append(items, item)
	}

	resp := &dto.NotificationListResponse{
		Status:            true,
		Data:              items,
		TotalPage:         totalPages(total, perPage),
		TotalNotification: total,
	}

	_ = s.cache.SetJSON(ctx, cacheKey, resp, s.listTTL)
	return resp, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	found, err := s.notificationRepo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return s.cache.InvalidatePrefix(ctx, notificationCachePrefix(userID))
}

func (s *notificationService) Delete(ctx context.Context, id, userID string) error {
	found, err := s.notificationRepo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return s.cache.InvalidatePrefix(ctx, notificationCachePrefix(userID))
}

func (s *notificationService) Bulk(ctx context.Context, userID, action string) error {
	switch action {
	case "read":
		if err := s.notificationRepo.MarkAllRead(ctx, userID); err != nil {
			return err
		}
	case "delete":
		if err := s.notificationRepo.DeleteAll(ctx, userID); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown bulk action %q", action)
	}
	return s.cache.InvalidatePrefix(ctx, notificationCachePrefix(userID))
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// DispatchReminder runs when a reminder's delayed job fires: persist an
// unread notification, push it into the owner's room, invalidate the
// owner's notification lists. Any error reports the job as failed so the
// queue's retry policy kicks in; a reminder deleted without cancellation
// lands here as a terminal NotFound that burns the retries.
func (s *notificationService) DispatchReminder(ctx context.Context, job *jobs.Job) error {
	reminder, err := s.reminderRepo.FindByID(ctx, job.ReminderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("reminder %s not found", job.ReminderID)
		}
		return fmt.Errorf("reminder lookup: %w", err)
	}

	notification := &models.Notification{
		UserID:     reminder.UserID,
		ReminderID: reminder.ID,
		Status:     models.StatusUnread,
		CreatedAt:  timeserver.Now(),
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	s.hub.Publish(websocket.RoomID(reminder.UserID), websocket.EventNewNotification, notification)

	return s.cache.InvalidatePrefix(ctx, notificationCachePrefix(reminder.UserID))
}

func (s *notificationService) PublishTest(userID string) {
	s.hub.Publish(websocket.RoomID(userID), websocket.EventNewNotification, userID)
}
