package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "student"
	RoleFaculty RoleType = "faculty"
	RoleAdmin   RoleType = "admin"
)

// Valid reports whether r is a known role.
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// UserStatus is toggled by admins; inactive users cannot sign in.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// MinCourseYear and MaxCourseYear bound the year of study a course or announcement can target.
const (
	MinCourseYear = 1
	MaxCourseYear = 4
)
