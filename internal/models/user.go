package models

import (
	"time"
)

// Roles assigned at registration. A user's role is fixed once created.
const (
	RoleAdmin  = "admin"
	RolePolice = "police"
	RoleUser   = "user"
)

// Account approval states. Registration creates a pending account; an admin
// decides it exactly once.
const (
	UserStatusPending  = "pending"
	UserStatusApproved = "approved"
	UserStatusRejected = "rejected"
)

type User struct {
	ID           string
	NationalID   string // 12-digit national identity number, unique, used for login
	Name         string
	Email        string
	PasswordHash string
	Role         string // "admin", "police", "user"
	Status       string // "pending", "approved", "rejected"

	// Officer fields, meaningful only when Role is "police". The case counts
	// are cached aggregates derived from the criminals table; they are
	// recomputed after status transitions, never edited directly.
	Designation  *string
	CasesSolved  int
	OngoingCases int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOfficer reports whether the user can be attributed as an arresting officer.
func (u *User) IsOfficer() bool {
	return u.Role == RolePolice || u.Role == RoleAdmin
}
