package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"financehub/internal/jobs"
	"financehub/internal/microservices/http-api/dto"
	"financehub/internal/microservices/http-api/models"
	"financehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReminderService mocks the ReminderService interface
type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) List(ctx context.Context, userID string, q dto.ReminderListQuery) (*dto.ReminderListResponse, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReminderListResponse), args.Error(1)
}

func (m *MockReminderService) Detail(ctx context.Context, id, userID string) (*models.Reminder, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reminder), args.Error(1)
}

func (m *MockReminderService) Create(ctx context.Context, userID string, req dto.ReminderRequest) (bool, error) {
	args := m.Called(ctx, userID, req)
	return args.Bool(0), args.Error(1)
}

func (m *MockReminderService) Update(ctx context.Context, id, userID string, req dto.ReminderRequest) (bool, error) {
	args := m.Called(ctx, id, userID, req)
	return args.Bool(0), args.Error(1)
}

func (m *MockReminderService) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockNotificationService mocks the NotificationService interface
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, userID string, page, perPage int) (*dto.NotificationListResponse, error) {
	args := m.Called(ctx, userID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.NotificationListResponse), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationService) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationService) Bulk(ctx context.Context, userID, action string) error {
	args := m.Called(ctx, userID, action)
	return args.Error(0)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) DispatchReminder(ctx context.Context, job *jobs.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockNotificationService) PublishTest(userID string) {
	m.Called(userID)
}

func setupReminderRouter(svc service.ReminderService, notificationSvc service.NotificationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// stand-in for the auth middleware
	r.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.Next()
	})
	NewReminderHandler(svc, notificationSvc).RegisterRoutes(r.Group("/reminder"))
	return r
}

func validReminderBody() []byte {
	body, _ := json.Marshal(dto.ReminderRequest{
		AllocationID: "9f1b6a52-0000-4000-8000-000000000001",
		Title:        "Pay electricity",
		Amount:       decimal.NewFromInt(50),
		DueDate:      "2027-01-15T09:00",
	})
	return body
}

func postJSON(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) dto.StatusResponse {
	t.Helper()
	var resp dto.StatusResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestReminderCreateHandler(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		svc := new(MockReminderService)
		router := setupReminderRouter(svc, new(MockNotificationService))

		svc.On("Create", mock.Anything, "user-1", mock.Anything).Return(true, nil)

		w := postJSON(router, "POST", "/reminder", validReminderBody())

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Reminder created successfully.", decodeStatus(t, w).Message)
	})

	t.Run("DuplicateIsOK", func(t *testing.T) {
		svc := new(MockReminderService)
		router := setupReminderRouter(svc, new(MockNotificationService))

		svc.On("Create", mock.Anything, "user-1", mock.Anything).Return(false, nil)

		w := postJSON(router, "POST", "/reminder", validReminderBody())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Reminder already exists.", decodeStatus(t, w).Message)
	})

	t.Run("PastDueDate", func(t *testing.T) {
		svc := new(MockReminderService)
		router := setupReminderRouter(svc, new(MockNotificationService))

		svc.On("Create", mock.Anything, "user-1", mock.Anything).Return(false, service.ErrPastDueDate)

		w := postJSON(router, "POST", "/reminder", validReminderBody())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeStatus(t, w)
		assert.False(t, resp.Status)
		assert.Equal(t, "Due date must be in the future.", resp.Message)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		svc := new(MockReminderService)
		router := setupReminderRouter(svc, new(MockNotificationService))

		svc.On("Create", mock.Anything, "user-1", mock.Anything).Return(false, service.ErrInvalidAmount)

		w := postJSON(router, "POST", "/reminder", validReminderBody())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeStatus(t, w)
		assert.False(t, resp.Status)
		assert.Equal(t, "Amount must be greater than zero.", resp.Message)
	})

	t.Run("MalformedDueDate", func(t *testing.T) {
		svc := new(MockReminderService)
		router := setupReminderRouter(svc, new(MockNotificationService))

		svc.On("Create", mock.Anything, "user-1", mock.Anything).Return(false, service.ErrInvalidDate)

		w := postJSON(router, "POST", "/reminder", validReminderBody())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeStatus(t, w)
		assert.False(t, resp.Status)
		assert.Equal(t, "Invalid date format.", resp.Message)
	})

	t.Run("InvalidPayload", func(t *testing.T) {
		svc := new(MockReminderService)
		router := setupReminderRouter(svc, new(MockNotificationService))

		w := postJSON(router, "POST", "/reminder", []byte(`{"title":"x"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Create")
	})
}

func TestReminderUpdateHandler(t *testing.T) {
	t.Run("NoChanges", func(t *testing.T) {
		svc := new(MockReminderService)
		router := setupReminderRouter(svc, new(MockNotificationService))

		svc.On("Update", mock.Anything, "rem-1", "user-1", mock.Anything).Return(false, nil)

		w := postJSON(router, "PUT", "/reminder/rem-1", validReminderBody())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "No changes to update.", decodeStatus(t, w).Message)
	})

	t.Run("Conflict", func(t *testing.T) {
		svc := new(MockReminderService)
		router := setupReminderRouter(svc, new(MockNotificationService))

		svc.On("Update", mock.Anything, "rem-1", "user-1", mock.Anything).
			Return(false, service.ErrDuplicateReminder)

		w := postJSON(router, "PUT", "/reminder/rem-1", validReminderBody())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "An identical reminder already exists for the new due date.", decodeStatus(t, w).Message)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := new(MockReminderService)
		router := setupReminderRouter(svc, new(MockNotificationService))

		svc.On("Update", mock.Anything, "missing", "user-1", mock.Anything).
			Return(false, service.ErrNotFound)

		w := postJSON(router, "PUT", "/reminder/missing", validReminderBody())

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Reminder not found.", decodeStatus(t, w).Message)
	})
}

func TestReminderDeleteHandler(t *testing.T) {
	t.Run("Deleted", func(t *testing.T) {
		svc := new(MockReminderService)
		router := setupReminderRouter(svc, new(MockNotificationService))

		svc.On("Delete", mock.Anything, "rem-1", "user-1").Return(nil)

		w := postJSON(router, "DELETE", "/reminder/rem-1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Reminder deleted successfully.", decodeStatus(t, w).Message)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := new(MockReminderService)
		router := setupReminderRouter(svc, new(MockNotificationService))

		svc.On("Delete", mock.Anything, "missing", "user-1").Return(service.ErrNotFound)

		w := postJSON(router, "DELETE", "/reminder/missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestReminderTestHandler(t *testing.T) {
	svc := new(MockReminderService)
	notificationSvc := new(MockNotificationService)
	router := setupReminderRouter(svc, notificationSvc)

	notificationSvc.On("PublishTest", "user-1").Return()

	w := postJSON(router, "POST", "/reminder/test", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	notificationSvc.AssertExpectations(t)
}
