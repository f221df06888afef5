package models

import "time"

// Token types stored in user_tokens.token_type
const (
	TokenTypeEmailVerification = "email_verification"
	TokenTypePasswordReset     = "password_reset"
)

// UserToken holds single-use opaque tokens mailed to users
// (email verification on signup, password reset).
type UserToken struct {
	TokenID   uint       `gorm:"primaryKey;column:token_id" json:"token_id"`
	UserID    uint       `gorm:"column:user_id" json:"user_id"`
	TokenType string     `gorm:"column:token_type" json:"token_type"`
	Token     string     `gorm:"column:token;unique" json:"-"`
	ExpiresAt time.Time  `gorm:"column:expires_at" json:"expires_at"`
	IsRevoked bool       `gorm:"column:is_revoked" json:"is_revoked"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (UserToken) TableName() string {
	return "user_tokens"
}
