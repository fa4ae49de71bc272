package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID            int64      `json:"id" db:"id" example:"1"`
	Name          string     `json:"name" db:"name" example:"Asha Kumar"`
	Email         string     `json:"email" db:"email" example:"asha@college.edu"`
	Password      string     `json:"-" db:"password_hash"`
	Role          RoleType   `json:"role" db:"role" example:"student"`
	Department    *string    `json:"department,omitempty" db:"department" example:"CSE"`
	AdmissionYear *int       `json:"year,omitempty" db:"admission_year" example:"2023"`
	StudentID     *string    `json:"studentId,omitempty" db:"student_id" example:"21CS045"`
	FacultyID     *string    `json:"facultyId,omitempty" db:"faculty_id" example:"FAC-112"`
	Phone         *string    `json:"phone,omitempty" db:"phone"`
	Status        UserStatus `json:"status" db:"status" example:"active"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the account may sign in.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// DepartmentValue returns the department or "" when unset.
func (u *User) DepartmentValue() string {
	if u.Department == nil {
		return ""
	}
	return *u.Department
}
