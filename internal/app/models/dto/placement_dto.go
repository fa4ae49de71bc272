package dto

import "github.com/yigit/campus/internal/app/models"

// CreatePlacementRequest represents a new placement record. The identity fields
// must match the referenced student's profile.
type CreatePlacementRequest struct {
	StudentID  string               `json:"studentId" binding:"required,notblank,max=30"`
	Name       string               `json:"name" binding:"required,notblank,max=100"`
	Email      string               `json:"email" binding:"required,email"`
	Department string               `json:"department" binding:"required,notblank,max=50"`
	BatchYear  int                  `json:"batchYear" binding:"required,min=1900,max=2200"`
	Company    string               `json:"company" binding:"required,notblank,max=200"`
	Role       string               `json:"role" binding:"required,notblank,max=200"`
	Package    float64              `json:"package" binding:"min=0"`
	Type       models.PlacementType `json:"type" binding:"required,oneof=fulltime internship"`
	DriveDate  string               `json:"driveDate" binding:"required" example:"2025-02-10"`
	Location   string               `json:"location" binding:"max=200"`
}

// UpdatePlacementRequest applies the provided offer fields. Identity fields are a
// snapshot taken at creation and cannot be edited.
type UpdatePlacementRequest struct {
	Company   *string               `json:"company" binding:"omitempty,notblank,max=200"`
	Role      *string               `json:"role" binding:"omitempty,notblank,max=200"`
	Package   *float64              `json:"package" binding:"omitempty,min=0"`
	Type      *models.PlacementType `json:"type" binding:"omitempty,oneof=fulltime internship"`
	DriveDate *string               `json:"driveDate"`
	Location  *string               `json:"location" binding:"omitempty,max=200"`
}

// PlacementFilterRequest holds the admin placement listing filters.
type PlacementFilterRequest struct {
	Department *string               `form:"department"`
	BatchYear  *int                  `form:"batchYear"`
	Company    *string               `form:"company"`
	Type       *models.PlacementType `form:"type" binding:"omitempty,oneof=fulltime internship"`
	StudentID  *string               `form:"studentId"`
	Page       int                   `form:"page"`
	Size       int                   `form:"size"`
}

// PlacementSummary is a student's best offer across all their placement records.
type PlacementSummary struct {
	StudentID  string               `json:"studentId"`
	Name       string               `json:"name"`
	Email      string               `json:"email"`
	Department string               `json:"department"`
	BatchYear  int                  `json:"batchYear"`
	Company    string               `json:"company"`
	Role       string               `json:"role"`
	Package    float64              `json:"package"`
	Type       models.PlacementType `json:"type"`
	Offers     int                  `json:"offers"`
}
