package handler

import (
	"context"
	"net/http"

	"financehub/internal/microservices/http-api/dto"
	"financehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/unread-count", h.UnreadCount)
	rg.PUT("/:id", h.MarkRead)
	rg.DELETE("/:id", h.Delete)
	rg.POST("", h.Bulk)
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var q dto.PaginationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, "Invalid query parameters.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.svc.List(ctx, userID, q.Page, q.PerPage)
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UnreadCount feeds the badge counter in the client header
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	count, err := h.svc.UnreadCount(ctx, userID)
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "count": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.MarkRead(ctx, c.Param("id"), userID); err != nil {
		if err == service.ErrNotFound {
			fail(c, http.StatusNotFound, "Notification not found.")
			return
		}
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: true, Message: "Notification marked as read."})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("id"), userID); err != nil {
		if err == service.ErrNotFound {
			fail(c, http.StatusNotFound, "Notification not found.")
			return
		}
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: true, Message: "Notification deleted."})
}

// Bulk applies {action: "read"|"delete"} to all of the caller's
// notifications.
func (h *NotificationHandler) Bulk(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.NotificationBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Action must be read or delete.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Bulk(ctx, userID, req.Action); err != nil {
		failErr(c, err)
		return
	}

	message := "All notifications marked as read."
	if req.Action == "delete" {
		message = "All notifications deleted."
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: true, Message: message})
}
