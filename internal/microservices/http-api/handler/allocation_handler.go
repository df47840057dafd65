package handler

import (
	"context"
	"net/http"

	"financehub/internal/microservices/http-api/dto"
	"financehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AllocationHandler struct {
	svc service.AllocationService
}

func NewAllocationHandler(svc service.AllocationService) *AllocationHandler {
	return &AllocationHandler{svc: svc}
}

func (h *AllocationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Detail)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List returns the user's allocations with the selected month's usage figures
func (h *AllocationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var q dto.AllocationListQuery
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

func (h *AllocationHandler) Detail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	item, err := h.svc.Detail(ctx, c.Param("id"), userID)
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "data": item})
}

func (h *AllocationHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid allocation payload.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Create(ctx, userID, req); err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.StatusResponse{Status: true, Message: "Allocation created successfully."})
}

func (h *AllocationHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid allocation payload.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Update(ctx, c.Param("id"), userID, req); err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: true, Message: "Allocation updated successfully."})
}

func (h *AllocationHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("id"), userID); err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: true, Message: "Allocation deleted successfully."})
}
