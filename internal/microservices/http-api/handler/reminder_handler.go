package handler

import (
	"context"
	"net/http"

	"financehub/internal/microservices/http-api/dto"
	"financehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReminderHandler struct {
	svc             service.ReminderService
	notificationSvc service.NotificationService
}

func NewReminderHandler(svc service.ReminderService, notificationSvc service.NotificationService) *ReminderHandler {
	return &ReminderHandler{svc: svc, notificationSvc: notificationSvc}
}

func (h *ReminderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Detail)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/test", h.Test)
}

func (h *ReminderHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var q dto.ReminderListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, "Invalid query parameters.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.svc.List(ctx, userID, q)
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReminderHandler) Detail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	reminder, err := h.svc.Detail(ctx, c.Param("id"), userID)
	if err != nil {
		if err == service.ErrNotFound {
			fail(c, http.StatusNotFound, "Reminder not found.")
			return
		}
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "data": reminder})
}

// Create schedules a new reminder. Resubmitting an identical reminder is a
// 200 no-op, not an error.
func (h *ReminderHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid reminder payload.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	created, err := h.svc.Create(ctx, userID, req)
	if err != nil {
		failErr(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, dto.StatusResponse{Status: true, Message: "Reminder already exists."})
		return
	}

	c.JSON(http.StatusCreated, dto.StatusResponse{Status: true, Message: "Reminder created successfully."})
}

// Update edits a reminder; a due-date change reschedules its pending job
// atomically. An unchanged body is a 200 no-op.
func (h *ReminderHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid reminder payload.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	changed, err := h.svc.Update(ctx, c.Param("id"), userID, req)
	if err != nil {
		if err == service.ErrNotFound {
			fail(c, http.StatusNotFound, "Reminder not found.")
			return
		}
		failErr(c, err)
		return
	}
	if !changed {
		c.JSON(http.StatusOK, dto.StatusResponse{Status: true, Message: "No changes to update."})
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: true, Message: "Reminder updated successfully."})
}

func (h *ReminderHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("id"), userID); err != nil {
		if err == service.ErrNotFound {
			fail(c, http.StatusNotFound, "Reminder not found.")
			return
		}
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: true, Message: "Reminder deleted successfully."})
}

// Test pushes a newNotification event straight into the caller's room so a
// client can verify its socket wiring without waiting for a due date.
func (h *ReminderHandler) Test(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	h.notificationSvc.PublishTest(userID)
	c.JSON(http.StatusOK, dto.StatusResponse{Status: true, Message: "Test notification sent."})
}
