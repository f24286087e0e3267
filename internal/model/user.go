package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role classifies what a user is allowed to do.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAssignee Role = "assignee"
	RoleReporter Role = "reporter"
	// RoleNone is the role of an anonymous or unresolved actor. It is
	// never persisted; it exists so that authorization checks always
	// operate on a concrete value instead of a missing attribute.
	RoleNone Role = ""
)

// Valid reports whether r is one of the persisted roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAssignee, RoleReporter:
		return true
	}
	return false
}

// User represents an account in the tracker.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"type:varchar(10);not null;default:'reporter';index"`
	Superuser    bool      `json:"-" gorm:"default:false"`
	Active       bool      `json:"active" gorm:"default:true;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets the UUID and enforces that superusers are admins.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Superuser {
		u.Role = RoleAdmin
	}
	return nil
}

// BeforeSave keeps the superuser-is-admin invariant across updates too.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Superuser && u.Role != RoleAdmin {
		u.Role = RoleAdmin
	}
	return nil
}
