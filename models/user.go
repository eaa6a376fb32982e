package models

import (
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAuthor   Role = "Author"
	RoleReviewer Role = "Reviewer"
	RoleAdmin    Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAuthor, RoleReviewer, RoleAdmin:
		return true
	}
	return false
}

// UserStatus is the account status.
type UserStatus string

const (
	UserActive  UserStatus = "Active"
	UserBlocked UserStatus = "Blocked"
)

type User struct {
	UserID         int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email          string     `gorm:"column:email;unique" json:"email"`
	Password       string     `gorm:"column:password" json:"-"`
	FirstName      string     `gorm:"column:first_name" json:"first_name"`
	LastName       string     `gorm:"column:last_name" json:"last_name"`
	Role           Role       `gorm:"column:role" json:"role"`
	Status         UserStatus `gorm:"column:status" json:"status"`
	Bio            *string    `gorm:"column:bio" json:"bio,omitempty"`
	Institution    *string    `gorm:"column:institution" json:"institution,omitempty"`
	Specialization *string    `gorm:"column:specialization" json:"specialization,omitempty"`
	Location       *string    `gorm:"column:location" json:"location,omitempty"`
	SocialLinks    *string    `gorm:"column:social_links" json:"social_links,omitempty"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserToken stores hashed one-time tokens, currently password resets only.
type UserToken struct {
	TokenID   int       `gorm:"primaryKey;column:token_id" json:"token_id"`
	UserID    int       `gorm:"column:user_id" json:"user_id"`
	TokenHash string    `gorm:"column:token_hash" json:"-"`
	TokenType string    `gorm:"column:token_type" json:"token_type"`
	ExpiresAt time.Time `gorm:"column:expires_at" json:"expires_at"`
	IsRevoked bool      `gorm:"column:is_revoked" json:"is_revoked"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (UserToken) TableName() string {
	return "user_tokens"
}

const TokenTypePasswordReset = "password_reset"
