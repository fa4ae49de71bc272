package models

import "time"

// Assignment belongs to a course and is owned by the faculty member who created it.
type Assignment struct {
	ID          int64     `json:"id" db:"id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	DueDate     time.Time `json:"dueDate" db:"due_date"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Submission is a student's single answer to an assignment.
type Submission struct {
	ID           int64     `json:"id" db:"id"`
	AssignmentID int64     `json:"assignmentId" db:"assignment_id"`
	StudentID    int64     `json:"studentId" db:"student_id"`
	FileURL      string    `json:"fileUrl" db:"file_url"`
	SubmittedAt  time.Time `json:"submittedAt" db:"submitted_at"`
}

// IsLate reports whether the submission arrived after the assignment's due date.
func (s *Submission) IsLate(a *Assignment) bool {
	return s.SubmittedAt.After(a.DueDate)
}
