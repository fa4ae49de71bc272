package models

import "time"

// Course defines the course model based on the 'courses' table.
// EnrolledStudents is derived from department and year by the enrollment
// synchronizer and is never edited directly.
type Course struct {
	ID               int64     `json:"id" db:"id"`
	CourseCode       string    `json:"courseCode" db:"course_code"`
	CourseName       string    `json:"courseName" db:"course_name"`
	Department       string    `json:"department" db:"department"`
	Year             int       `json:"year" db:"year"`
	CreatedBy        int64     `json:"createdBy" db:"created_by"`
	EnrolledStudents []int64   `json:"enrolledStudents"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// HasStudent reports whether studentID is in the enrolled set.
func (c *Course) HasStudent(studentID int64) bool {
	for _, id := range c.EnrolledStudents {
		if id == studentID {
			return true
		}
	}
	return false
}

// CourseMaterial is a file or link attached to a course by its creator.
type CourseMaterial struct {
	ID          int64     `json:"id" db:"id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	FileURL     string    `json:"fileUrl" db:"file_url"`
	UploadedBy  int64     `json:"uploadedBy" db:"uploaded_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
