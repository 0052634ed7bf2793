package api

import (
	"github.com/madmonkey007/EchoListenultra/domain/entities"
)

// RegisterRequest represents the request payload for user registration
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a signed token and the authenticated user
type AuthResponse struct {
	Token string         `json:"token"`
	User  *entities.User `json:"user"`
}

// ReviewRequest represents one spaced-repetition answer
type ReviewRequest struct {
	Known bool `json:"known"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
