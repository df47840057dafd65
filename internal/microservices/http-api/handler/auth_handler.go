package handler

import (
	"net/http"
	"strings"

	"financehub/internal/microservices/http-api/dto"
	"financehub/internal/microservices/http-api/service"
	"financehub/internal/microservices/websocket"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.GET("/refresh-token", h.Refresh)
}

// Register creates a new user account
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid registration payload.")
		return
	}

	if _, err := h.svc.Register(req.Name, req.Email, req.Password); err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.StatusResponse{Status: true, Message: "User registered successfully."})
}

// Login authenticates a user and hands back the token pair plus the push
// room id, so the client can join its room right away.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email and password are required.")
		return
	}

	accessToken, refreshToken, user, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Status:       true,
		Message:      "Login successful.",
		RoomID:       websocket.RoomID(user.ID),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Refresh exchanges a valid refresh token, carried as the Bearer token, for
// a fresh access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		fail(c, http.StatusForbidden, "Refresh token is required.")
		return
	}

	accessToken, err := h.svc.RefreshAccessToken(parts[1])
	if err != nil {
		fail(c, http.StatusForbidden, "Invalid or expired refresh token.")
		return
	}

	c.JSON(http.StatusOK, dto.RefreshResponse{Status: true, AccessToken: accessToken})
}
