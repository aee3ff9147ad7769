// Package auth request/response payloads.
package auth

// RegisterRequest represents the registration request payload. Role is
// optional and defaults to "user" when omitted.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64" example:"alice"`
	Password string `json:"password" validate:"required,min=8,max=256" example:"strongpassword123"`
	Role     Role   `json:"role,omitempty" validate:"omitempty,oneof=admin user" example:"user"`
}

// TokenResponse represents the access token returned on successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
}
