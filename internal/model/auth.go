package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are JWT claims for an authenticated respondent
type UserClaims struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for account creation
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful register or login
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
