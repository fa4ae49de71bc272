package dto

import "time"

// CreateAssignmentRequest represents a new assignment on one of the caller's courses
type CreateAssignmentRequest struct {
	CourseID    int64  `json:"course" binding:"required,min=1"`
	Title       string `json:"title" binding:"required,notblank,max=200"`
	Description string `json:"description" binding:"max=5000"`
	DueDate     string `json:"dueDate" binding:"required" example:"2025-04-01T23:59:00Z"`
}

// UpdateAssignmentRequest applies the provided fields.
type UpdateAssignmentRequest struct {
	Title       *string `json:"title" binding:"omitempty,notblank,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	DueDate     *string `json:"dueDate"`
}

// CreateSubmissionRequest accepts either a multipart upload (field "file") or an external fileUrl.
type CreateSubmissionRequest struct {
	FileURL *string `json:"fileUrl" form:"fileUrl" binding:"omitempty,url"`
}

// AssignmentStatusResponse reports a student's own submission state, or, for the
// assignment's creator, how many enrolled students have submitted.
type AssignmentStatusResponse struct {
	AssignmentID int64      `json:"assignmentId"`
	DueDate      time.Time  `json:"dueDate"`
	Submitted    *bool      `json:"submitted,omitempty"`
	SubmittedAt  *time.Time `json:"submittedAt,omitempty"`
	FileURL      *string    `json:"fileUrl,omitempty"`
	Late         *bool      `json:"late,omitempty"`
	Enrolled     *int       `json:"enrolled,omitempty"`
	SubmitCount  *int       `json:"submittedCount,omitempty"`
	PendingCount *int       `json:"pendingCount,omitempty"`
}
