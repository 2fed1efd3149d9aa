package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for accounts.
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID          int64
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Role        Role
	IsVerified  bool
	AvatarURL   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Actor is the authenticated caller of an operation.
// It is built by the auth middleware and passed explicitly to services.
type Actor struct {
	ID       int64
	Role     Role
	Verified bool
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, Verified: u.IsVerified}
}
