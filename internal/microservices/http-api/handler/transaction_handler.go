package handler

import (
	"context"
	"net/http"

	"financehub/internal/microservices/http-api/dto"
	"financehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	svc service.TransactionService
}

func NewTransactionHandler(svc service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Detail)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var q dto.TransactionListQuery
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

func (h *TransactionHandler) Detail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	transaction, err := h.svc.Detail(ctx, c.Param("id"), userID)
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "data": transaction})
}

func (h *TransactionHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid transaction payload.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Create(ctx, userID, req); err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.StatusResponse{Status: true, Message: "Transaction created successfully."})
}

func (h *TransactionHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid transaction payload.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Update(ctx, c.Param("id"), userID, req); err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: true, Message: "Transaction updated successfully."})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
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

	c.JSON(http.StatusOK, dto.StatusResponse{Status: true, Message: "Transaction deleted successfully."})
}
