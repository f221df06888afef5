package models

import "time"

// Role values stored in users.role
const (
	RolePatient       = "patient"
	RoleDermatologist = "dermatologist"
	RoleAdmin         = "admin"
)

type User struct {
	UserID      uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username    string     `gorm:"column:username;unique" json:"username"`
	Email       string     `gorm:"column:email;unique" json:"email"`
	Password    string     `gorm:"column:password" json:"-"`
	Role        string     `gorm:"column:role" json:"role"` // patient|dermatologist|admin
	IsVerified  bool       `gorm:"column:is_verified" json:"is_verified"`
	IsSuspended bool       `gorm:"column:is_suspended" json:"is_suspended"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}
