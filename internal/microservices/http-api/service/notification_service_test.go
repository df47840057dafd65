package service

import (
	"context"
	"testing"
	"time"

	"financehub/internal/jobs"
	"financehub/internal/microservices/http-api/models"
	"financehub/internal/microservices/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockNotificationRepository mocks the NotificationRepository interface
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]models.Notification, int64, error) {
	args := m.Called(ctx, userID, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) DeleteAll(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// recordingPublisher captures push-channel deliveries
type recordingPublisher struct {
	roomID string
	event  string
	data   any
	calls  int
}

func (p *recordingPublisher) Publish(roomID, event string, data any) {
	p.roomID = roomID
	p.event = event
	p.data = data
	p.calls++
}

func newNotificationServiceForTest(nRepo *MockNotificationRepository, rRepo *MockReminderRepository, pub Publisher) NotificationService {
	return NewNotificationService(nRepo, rRepo, pub, nil, 2*time.Minute)
}

func TestNotificationList(t *testing.T) {
	userID := "user-1"

	t.Run("OrphanedNotificationDegrades", func(t *testing.T) {
		nRepo := new(MockNotificationRepository)
		rRepo := new(MockReminderRepository)
		svc := newNotificationServiceForTest(nRepo, rRepo, &recordingPublisher{})

		title := "Pay electricity"
		rows := []models.Notification{
			{ID: "n-1", UserID: userID, ReminderID: "rem-1", Status: models.StatusUnread,
				Reminder: &models.Reminder{ID: "rem-1", Title: title}},
			// source reminder deleted since the notification fired
			{ID: "n-2", UserID: userID, ReminderID: "rem-gone", Status: models.StatusUnread},
		}
		nRepo.On("ListByUser", mock.Anything, userID, 1, 10).Return(rows, int64(2), nil)

		resp, err := svc.List(context.Background(), userID, 1, 10)

		assert.NoError(t, err)
		assert.Len(t, resp.Data, 2)
		assert.Equal(t, &title, resp.Data[0].ReminderTitle)
		assert.Nil(t, resp.Data[1].ReminderTitle)
		assert.Nil(t, resp.Data[1].AllocationName)
	})
}

func TestNotificationMarkReadAndDelete(t *testing.T) {
	userID := "user-1"

	t.Run("MarkReadNotFound", func(t *testing.T) {
		nRepo := new(MockNotificationRepository)
		rRepo := new(MockReminderRepository)
		svc := newNotificationServiceForTest(nRepo, rRepo, &recordingPublisher{})

		nRepo.On("MarkRead", mock.Anything, "missing", userID).Return(false, nil)

		err := svc.MarkRead(context.Background(), "missing", userID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("DeleteScopedToOwner", func(t *testing.T) {
		nRepo := new(MockNotificationRepository)
		rRepo := new(MockReminderRepository)
		svc := newNotificationServiceForTest(nRepo, rRepo, &recordingPublisher{})

		// another user's notification id looks like a miss, not a leak
		nRepo.On("Delete", mock.Anything, "n-1", "intruder").Return(false, nil)

		err := svc.Delete(context.Background(), "n-1", "intruder")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestNotificationBulk(t *testing.T) {
	userID := "user-1"

	t.Run("ReadAll", func(t *testing.T) {
		nRepo := new(MockNotificationRepository)
		rRepo := new(MockReminderRepository)
		svc := newNotificationServiceForTest(nRepo, rRepo, &recordingPublisher{})

		nRepo.On("MarkAllRead", mock.Anything, userID).Return(nil)

		assert.NoError(t, svc.Bulk(context.Background(), userID, "read"))
		nRepo.AssertExpectations(t)
	})

	t.Run("DeleteAll", func(t *testing.T) {
		nRepo := new(MockNotificationRepository)
		rRepo := new(MockReminderRepository)
		svc := newNotificationServiceForTest(nRepo, rRepo, &recordingPublisher{})

		nRepo.On("DeleteAll", mock.Anything, userID).Return(nil)

		assert.NoError(t, svc.Bulk(context.Background(), userID, "delete"))
		nRepo.AssertExpectations(t)
	})

	t.Run("UnknownAction", func(t *testing.T) {
		nRepo := new(MockNotificationRepository)
		rRepo := new(MockReminderRepository)
		svc := newNotificationServiceForTest(nRepo, rRepo, &recordingPublisher{})

		assert.Error(t, svc.Bulk(context.Background(), userID, "archive"))
	})
}

func TestDispatchReminder(t *testing.T) {
	userID := "user-1"
	job := &jobs.Job{ID: 7, ReminderID: "rem-1", UserID: userID}

	t.Run("CreatesNotificationAndPublishesToOwnerRoom", func(t *testing.T) {
		nRepo := new(MockNotificationRepository)
		rRepo := new(MockReminderRepository)
		pub := &recordingPublisher{}
		svc := newNotificationServiceForTest(nRepo, rRepo, pub)

		rRepo.On("FindByID", mock.Anything, "rem-1").Return(&models.Reminder{
			ID: "rem-1", UserID: userID, Title: "Pay electricity",
		}, nil)
		nRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
			return n.UserID == userID && n.ReminderID == "rem-1" && n.Status == models.StatusUnread
		})).Return(nil)

		err := svc.DispatchReminder(context.Background(), job)

		assert.NoError(t, err)
		assert.Equal(t, 1, pub.calls)
		assert.Equal(t, websocket.RoomID(userID), pub.roomID)
		assert.Equal(t, websocket.EventNewNotification, pub.event)
	})

	t.Run("DeletedReminderFailsTheJob", func(t *testing.T) {
		nRepo := new(MockNotificationRepository)
		rRepo := new(MockReminderRepository)
		pub := &recordingPublisher{}
		svc := newNotificationServiceForTest(nRepo, rRepo, pub)

		rRepo.On("FindByID", mock.Anything, "rem-1").Return(nil, gorm.ErrRecordNotFound)

		err := svc.DispatchReminder(context.Background(), job)

		assert.Error(t, err)
		assert.Equal(t, 0, pub.calls)
		nRepo.AssertNotCalled(t, "Create")
	})

	t.Run("PersistFailureDoesNotPublish", func(t *testing.T) {
		nRepo := new(MockNotificationRepository)
		rRepo := new(MockReminderRepository)
		pub := &recordingPublisher{}
		svc := newNotificationServiceForTest(nRepo, rRepo, pub)

		rRepo.On("FindByID", mock.Anything, "rem-1").Return(&models.Reminder{
			ID: "rem-1", UserID: userID,
		}, nil)
		nRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

		err := svc.DispatchReminder(context.Background(), job)

		assert.Error(t, err)
		assert.Equal(t, 0, pub.calls)
	})
}
