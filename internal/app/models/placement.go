package models

import "time"

// PlacementType distinguishes full-time offers from internships.
type PlacementType string

const (
	PlacementFullTime   PlacementType = "fulltime"
	PlacementInternship PlacementType = "internship"
)

// Valid reports whether t is a known placement type.
func (t PlacementType) Valid() bool {
	return t == PlacementFullTime || t == PlacementInternship
}

// Placement records an offer made to a student. Name, Email, Department and
// BatchYear are copied from the student profile at creation time and are not
// kept in sync afterwards.
type Placement struct {
	ID            int64         `json:"id" db:"id"`
	StudentID     string        `json:"studentId" db:"student_id"`
	Name          string        `json:"name" db:"name"`
	Email         string        `json:"email" db:"email"`
	Department    string        `json:"department" db:"department"`
	BatchYear     int           `json:"batchYear" db:"batch_year"`
	Company       string        `json:"company" db:"company"`
	Role          string        `json:"role" db:"role"`
	Package       float64       `json:"package" db:"package"`
	Type          PlacementType `json:"type" db:"type"`
	DriveDate     time.Time     `json:"driveDate" db:"drive_date"`
	Location      string        `json:"location" db:"location"`
	CreatedBy     int64         `json:"createdBy" db:"created_by"`
	CreatedByRole RoleType      `json:"createdByRole" db:"created_by_role"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
}
