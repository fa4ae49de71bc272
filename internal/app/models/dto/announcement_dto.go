package dto

import "github.com/yigit/campus/internal/app/models"

// AnnouncementTagsRequest narrows an announcement's audience. Omitted tags default to audience "all".
type AnnouncementTagsRequest struct {
	Audience   models.Audience `json:"audience" binding:"omitempty,oneof=all students faculty admin"`
	Department *string         `json:"department" binding:"omitempty,notblank,max=50"`
	Year       *int            `json:"year" binding:"omitempty,min=1,max=4"`
}

// CreateAnnouncementRequest represents a new announcement
type CreateAnnouncementRequest struct {
	Title         string                   `json:"title" binding:"required,notblank,max=200"`
	Description   string                   `json:"description" binding:"required,notblank"`
	Type          models.AnnouncementType  `json:"type" binding:"required,oneof=academic event notice holiday"`
	Date          string                   `json:"date" binding:"required" example:"2025-03-14"`
	Time          *string                  `json:"time" binding:"omitempty,max=20" example:"10:30"`
	Location      *string                  `json:"location" binding:"omitempty,max=200"`
	AttachmentURL *string                  `json:"attachmentUrl" binding:"omitempty,url"`
	Tags          *AnnouncementTagsRequest `json:"tags"`
}
