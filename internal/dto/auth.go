package dto

type SessionTokenRequest struct {
	Name string `json:"name,omitempty" example:"Maya" validate:"omitempty,max=64"`
}

type SessionTokenResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	UserID    string `json:"user_id" example:"usr_abc123"`
	Name      string `json:"name,omitempty" example:"Maya"`
	ExpiresAt string `json:"expires_at" example:"2025-03-10T21:00:00Z"`
}
