package dto

import (
	"time"

	"github.com/yigit/campus/internal/app/models"
)

// CreateUserRequest is used by admins to create accounts and, restricted to
// student and faculty roles, by the self-registration endpoint.
type CreateUserRequest struct {
	Name          string          `json:"name" binding:"required,notblank,max=100"`
	Email         string          `json:"email" binding:"required,email"`
	Password      string          `json:"password" binding:"required,min=8"`
	Role          models.RoleType `json:"role" binding:"required,oneof=student faculty admin"`
	Department    *string         `json:"department" binding:"omitempty,notblank,max=50"`
	AdmissionYear *int            `json:"year" binding:"omitempty,min=1900,max=2200"`
	StudentID     *string         `json:"studentId" binding:"omitempty,notblank,max=30"`
	FacultyID     *string         `json:"facultyId" binding:"omitempty,notblank,max=30"`
	Phone         *string         `json:"phone" binding:"omitempty,max=20"`
}

// UpdateUserRequest applies the provided fields; omitted fields are left unchanged.
type UpdateUserRequest struct {
	Name          *string          `json:"name" binding:"omitempty,notblank,max=100"`
	Email         *string          `json:"email" binding:"omitempty,email"`
	Role          *models.RoleType `json:"role" binding:"omitempty,oneof=student faculty admin"`
	Department    *string          `json:"department" binding:"omitempty,max=50"`
	AdmissionYear *int             `json:"year" binding:"omitempty,min=1900,max=2200"`
	StudentID     *string          `json:"studentId" binding:"omitempty,max=30"`
	FacultyID     *string          `json:"facultyId" binding:"omitempty,max=30"`
	Phone         *string          `json:"phone" binding:"omitempty,max=20"`
}

// UpdateUserStatusRequest toggles an account between active and inactive.
type UpdateUserStatusRequest struct {
	Status models.UserStatus `json:"status" binding:"required,oneof=active inactive"`
}

// UserFilterRequest holds the admin user listing filters.
type UserFilterRequest struct {
	Role       *models.RoleType   `form:"role" binding:"omitempty,oneof=student faculty admin"`
	Department *string            `form:"department"`
	Status     *models.UserStatus `form:"status" binding:"omitempty,oneof=active inactive"`
	Search     *string            `form:"search"`
	Page       int                `form:"page"`
	Size       int                `form:"size"`
}

// UserResponse represents user information
type UserResponse struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Role       models.RoleType   `json:"role"`
	Department *string           `json:"department,omitempty"`
	Year       *int              `json:"year,omitempty"`
	StudentID  *string           `json:"studentId,omitempty"`
	FacultyID  *string           `json:"facultyId,omitempty"`
	Phone      *string           `json:"phone,omitempty"`
	Status     models.UserStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// StudentSummary carries the basic student fields faculty may see for their enrolled students.
type StudentSummary struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	StudentID  *string `json:"studentId,omitempty"`
	Department *string `json:"department,omitempty"`
	Year       *int    `json:"year,omitempty"`
}

// ToUserResponse maps a user model to its API representation.
func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		Year:       u.AdmissionYear,
		StudentID:  u.StudentID,
		FacultyID:  u.FacultyID,
		Phone:      u.Phone,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
	}
}

// ToStudentSummary keeps only the fields faculty are allowed to read.
func ToStudentSummary(u *models.User) StudentSummary {
	return StudentSummary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		StudentID:  u.StudentID,
		Department: u.Department,
		Year:       u.AdmissionYear,
	}
}
