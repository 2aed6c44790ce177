package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Built-in role slugs.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleUser  = "user"
)

// Role groups users for route access. Permissions is a free-form JSON
// document kept for the admin UI; route access itself is decided by casbin.
type Role struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Slug        string          `gorm:"uniqueIndex;not null" json:"slug"`
	Description string          `json:"description"`
	Permissions json.RawMessage `gorm:"type:jsonb" json:"permissions"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"deletedAt"`
}

// User represents a user in the system
type User struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	Username             string     `gorm:"uniqueIndex;not null" json:"username"`
	Email                string     `gorm:"uniqueIndex;not null" json:"email"`
	Password             string     `gorm:"not null" json:"-"` // bcrypt hash
	RoleID               *uint      `gorm:"index" json:"roleId"`
	Role                 *Role      `json:"role,omitempty"`
	EmailVerified        bool       `gorm:"default:false" json:"emailVerified"`
	EmailVerifiedAt      *time.Time `json:"emailVerifiedAt"`
	EmailVerifToken      *string    `gorm:"index" json:"-"`
	ResetPasswordToken   *string    `gorm:"index" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// RoleSlug returns the slug used as the session role, falling back to
// RoleUser when the user has no live role.
func (u *User) RoleSlug() string {
	if u.Role == nil || u.Role.Slug == "" {
		return RoleUser
	}
	return u.Role.Slug
}

// UserRef is the creator summary embedded in list responses.
type UserRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func (UserRef) TableName() string { return "users" }
