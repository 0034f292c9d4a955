package auth

import (
	"github.com/arshoplabs/arshop-backend/internal/users"
)

// RegisterRequest contains the signup form payload.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest contains the login form payload. Identifier is an email
// when it contains '@', otherwise a username.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Remember   bool   `json:"remember"`
	Next       string `json:"next"`
}

// LoginResponse carries the minted token and the safe redirect target.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	RedirectTo  string         `json:"redirect_to"`
	User        *users.UserDTO `json:"user"`
}

// RegisterResponse returns the created account.
type RegisterResponse struct {
	User *users.UserDTO `json:"user"`
}
