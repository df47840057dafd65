package handler

import (
	"errors"
	"net/http"
	"time"

	"financehub/internal/microservices/http-api/dto"
	"financehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// requestTimeout bounds each handler's downstream work.
const requestTimeout = 5 * time.Second

// currentUserID pulls the authenticated user id set by the auth middleware.
// Returns false (and writes the 401) when the route was mounted without it.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.StatusResponse{Status: false, Message: "User not authenticated."})
		return "", false
	}
	return userID.(string), true
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, dto.StatusResponse{Status: false, Message: message})
}

// failErr maps the service error taxonomy onto HTTP statuses with the
// uniform {status:false, message} body.
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		fail(c, http.StatusNotFound, "Not found.")
	case errors.Is(err, service.ErrInvalidAmount):
		fail(c, http.StatusBadRequest, "Amount must be greater than zero.")
	case errors.Is(err, service.ErrInvalidDate):
		fail(c, http.StatusBadRequest, "Invalid date format.")
	case errors.Is(err, service.ErrPastDueDate):
		fail(c, http.StatusBadRequest, "Due date must be in the future.")
	case errors.Is(err, service.ErrDuplicateReminder):
		fail(c, http.StatusBadRequest, "An identical reminder already exists for the new due date.")
	case errors.Is(err, service.ErrAllocationExists):
		fail(c, http.StatusBadRequest, "Allocation already exists.")
	case errors.Is(err, service.ErrAllocationMismatch):
		fail(c, http.StatusBadRequest, "Allocation not found or not matched with this transaction.")
	case errors.Is(err, service.ErrDuplicateTx):
		fail(c, http.StatusBadRequest, "Transaction already exists.")
	case errors.Is(err, service.ErrBudgetExceeded):
		fail(c, http.StatusBadRequest, "Insufficient budget for this transaction.")
	case errors.Is(err, service.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, service.ErrEmailInUse):
		fail(c, http.StatusBadRequest, "Email already exists.")
	case errors.Is(err, service.ErrInvalidToken):
		fail(c, http.StatusUnauthorized, "Invalid or expired token.")
	default:
		fail(c, http.StatusInternalServerError, "Internal server error.")
	}
}
