package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campus/internal/app/auth"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/pkg/apperrors"
	"github.com/yigit/campus/internal/pkg/helpers"
)

// AnnouncementService handles announcement publishing and feeds
type AnnouncementService struct {
	announcements AnnouncementStore
	authz         *auth.AuthorizationService
	logger        zerolog.Logger
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(announcements AnnouncementStore, authz *auth.AuthorizationService, logger zerolog.Logger) *AnnouncementService {
	return &AnnouncementService{
		announcements: announcements,
		authz:         authz,
		logger:        logger,
	}
}

// buildTags defaults a missing tag set to audience "all".
func buildTags(req *dto.AnnouncementTagsRequest) (models.AnnouncementTags, error) {
	tags := models.AnnouncementTags{Audience: models.AudienceAll}
	if req == nil {
		return tags, nil
	}
	if req.Audience != "" {
		if !req.Audience.Valid() {
			return tags, apperrors.NewValidationError("tags.audience", "unknown audience %q", req.Audience)
		}
		tags.Audience = req.Audience
	}
	tags.Department = trimmed(req.Department)
	if req.Year != nil {
		if *req.Year < models.MinCourseYear || *req.Year > models.MaxCourseYear {
			return tags, apperrors.NewValidationError("tags.year", "year must be between %d and %d", models.MinCourseYear, models.MaxCourseYear)
		}
		tags.Year = req.Year
	}
	return tags, nil
}

// Create publishes an announcement authored by p.
func (s *AnnouncementService) Create(ctx context.Context, p auth.Principal, req *dto.CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.authz.CanCreateAnnouncement(p); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, apperrors.NewValidationError("type", "unknown announcement type %q", req.Type)
	}
	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("date", "date must be YYYY-MM-DD or RFC3339")
	}
	tags, err := buildTags(req.Tags)
	if err != nil {
		return nil, err
	}

	a := &models.Announcement{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Type:          req.Type,
		Date:          date,
		Time:          trimmed(req.Time),
		Location:      trimmed(req.Location),
		AttachmentURL: trimmed(req.AttachmentURL),
		Tags:          tags,
		CreatedBy:     p.ID,
		CreatedByRole: p.Role,
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("announcementId", a.ID).Str("audience", string(a.Tags.Audience)).Msg("Announcement published")
	return a, nil
}

// Feed returns the announcements addressed to p, newest first.
func (s *AnnouncementService) Feed(ctx context.Context, p auth.Principal) ([]*models.Announcement, error) {
	where, err := s.authz.FeedPredicate(p)
	if err != nil {
		return nil, err
	}
	return s.announcements.List(ctx, where)
}

// ListAll returns every announcement. Admins only.
func (s *AnnouncementService) ListAll(ctx context.Context, p auth.Principal) ([]*models.Announcement, error) {
	if err := s.authz.Authorize(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.announcements.List(ctx, nil)
}

// GetByID returns one announcement if p could see it in their feed, authored it, or is an admin.
func (s *AnnouncementService) GetByID(ctx context.Context, p auth.Principal, id int64) (*models.Announcement, error) {
	a, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanReadAnnouncement(p, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an announcement. Admins only.
func (s *AnnouncementService) Delete(ctx context.Context, p auth.Principal, id int64) error {
	if err := s.authz.CanDeleteAnnouncement(p); err != nil {
		return err
	}
	if err := s.announcements.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("announcementId", id).Int64("deletedBy", p.ID).Msg("Announcement deleted")
	return nil
}
