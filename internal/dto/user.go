package dto

import (
	"time"

	"github.com/yukikurage/zen-task-api/internal/auth"
	"github.com/yukikurage/zen-task-api/internal/models"
)

// TokenTypeBearer is the scheme clients put in front of the token
const TokenTypeBearer = "Bearer"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        string      `json:"userId"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ToUserDTO converts a User model to UserDTO. It doubles as the
// registration result.
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func ToLoginResponse(token *auth.Token) LoginResponse {
	return LoginResponse{
		Token:     token.Value,
		TokenType: TokenTypeBearer,
		ExpiresAt: token.ExpiresAt,
	}
}
