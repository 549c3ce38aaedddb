package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is a closed set of user roles
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// IsStaff returns true for staff and admin
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// User is a hostel resident or staff member
type User struct {
	ID            int64
	Name          string
	Email         string
	Role          Role
	HostelID      *int64
	WalletBalance decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID int64
	Role   Role
}

// CanCancelAny returns true if the actor may cancel reservations of other users
func (a Actor) CanCancelAny() bool {
	return a.Role.IsStaff()
}

// CanAccessUser returns true if the actor may read data owned by userID
func (a Actor) CanAccessUser(userID int64) bool {
	return a.UserID == userID || a.Role.IsStaff()
}
