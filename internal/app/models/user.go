package models

import (
	"time"

	"github.com/google/uuid"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Email       string     `json:"email" db:"email" example:"student@university.ac.th"`
	Password    string     `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	FullName    string     `json:"fullName" db:"full_name" example:"Somchai Jaidee"`
	Role        RoleType   `json:"role" db:"role" example:"STUDENT"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}
