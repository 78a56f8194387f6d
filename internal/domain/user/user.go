package user

import (
	"errors"
	"time"
)

type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

func (r Role) Valid() bool {
	return r == RoleInterviewer || r == RoleCandidate
}

type User struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // never expose hash in JSON
	Role           Role      `json:"role"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	IsVerified     bool      `json:"is_verified"`
	ImageURL       *string   `json:"imageUrl,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Image struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrImageNotFound = errors.New("user image not found")
)

type RegisterRequest struct {
	FullName string `json:"fullName" binding:"required,notblank,max=255"`
	Email    string `json:"email" binding:"required,email,max=320"`
	Password string `json:"password" binding:"required,min=3"`
	Role     Role   `json:"role" binding:"required,oneof=interviewer candidate"`

	// accepted for wire compatibility, ignored on self-registration
	IsActive    *bool `json:"is_active"`
	IsSuperuser *bool `json:"is_superuser"`
	IsVerified  *bool `json:"is_verified"`
}

// UpdateRequest is a partial update: nil fields are left untouched.
type UpdateRequest struct {
	FullName    *string `json:"fullName" binding:"omitempty,notblank,max=255"`
	Email       *string `json:"email" binding:"omitempty,email,max=320"`
	Password    *string `json:"password" binding:"omitempty,min=3"`
	Role        *Role   `json:"role" binding:"omitempty,oneof=interviewer candidate"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
	IsVerified  *bool   `json:"is_verified"`
}

func (r UpdateRequest) TouchesPrivilegedFields() bool {
	return r.IsActive != nil || r.IsSuperuser != nil || r.IsVerified != nil
}
