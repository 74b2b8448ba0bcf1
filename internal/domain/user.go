package domain

import "time"

// Role enumerates who a user is within the campus.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// User is an account that can file, handle or oversee complaints.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	StudentID    *string
	Department   string
	Phone        string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ref returns the display reference for u.
func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	ref := &UserRef{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
	}
	if u.StudentID != nil {
		ref.StudentID = *u.StudentID
	}
	return ref
}

// UserRef is the subset of a user shown next to complaints.
type UserRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
	StudentID  string `json:"student_id,omitempty"`
}
