package domain

import (
	"strings"
	"time"
)

// Role classifies a member of the community.
type Role string

const (
	RolePup     Role = "pup"
	RoleHandler Role = "handler"
	RoleFurry   Role = "furry"
	RoleAlly    Role = "ally"
	RoleAdmin   Role = "admin"
)

// Roles lists every assignable role, in display order.
var Roles = []Role{RolePup, RoleHandler, RoleFurry, RoleAlly, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePup, RoleHandler, RoleFurry, RoleAlly, RoleAdmin:
		return true
	}
	return false
}

// UserProfile is a registered member of the directory.
type UserProfile struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Email         string    `json:"email" bson:"email"`
	PasswordHash  string    `json:"-" bson:"password_hash,omitempty"`
	Role          Role      `json:"role" bson:"role"`
	Name          string    `json:"name" bson:"name"`
	Bio           string    `json:"bio,omitempty" bson:"bio,omitempty"`
	Interests     []string  `json:"interests,omitempty" bson:"interests,omitempty"`
	Avatar        string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Blocked       bool      `json:"blocked" bson:"blocked"`
	EmailVerified bool      `json:"email_verified" bson:"email_verified"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// NormalizeInterests converts the legacy free-text interests form into the
// canonical ordered list: comma-separated fragments are split, whitespace is
// trimmed, and empty entries are dropped. Lists already in canonical form
// pass through with the same trimming applied.
func NormalizeInterests(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
