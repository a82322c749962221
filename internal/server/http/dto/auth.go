package dto

import "github.com/NarekMan21/test-deploy-crm/internal/domain/model"

// UserResponse is the public projection of an account.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// FromUser converts a domain user to its wire form.
func FromUser(user *model.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}
}

// LoginResponse mirrors the login payload the dashboard stores.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

// ErrorResponse carries the user-visible failure message.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
