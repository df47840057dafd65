package dto

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest: payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse: response payload after successful authentication.
// RoomID is the client's push-channel room, derived from the user id, so the
// frontend can join-room right after login.
type LoginResponse struct {
	Status       bool   `json:"status"`
	Message      string `json:"message"`
	RoomID       string `json:"roomId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse: response payload after refreshing access token
type RefreshResponse struct {
	Status      bool   `json:"status"`
	AccessToken string `json:"accessToken"`
}
