package domain

import "time"

// Session is the single active authenticated session of a user. The TokenID
// mirrors the jti claim of the JWT handed to the client; a token whose jti no
// longer matches the stored session has been revoked.
type Session struct {
	TokenID   string    `json:"token_id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
