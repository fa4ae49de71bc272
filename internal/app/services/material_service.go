package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campus/internal/app/auth"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/pkg/apperrors"
	"github.com/yigit/campus/internal/pkg/filestorage"
)

// MaterialService handles course materials
type MaterialService struct {
	materials MaterialStore
	courses   CourseStore
	storage   filestorage.FileStorage
	authz     *auth.AuthorizationService
	logger    zerolog.Logger
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(
	materials MaterialStore,
	courses CourseStore,
	storage filestorage.FileStorage,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) *MaterialService {
	return &MaterialService{
		materials: materials,
		courses:   courses,
		storage:   storage,
		authz:     authz,
		logger:    logger,
	}
}

// resolveFileURL stores file when present and otherwise falls back to fileURL.
// stored reports whether the returned URL points into our storage.
func resolveFileURL(storage filestorage.FileStorage, file *multipart.FileHeader, fileURL *string, subPath string) (url string, stored bool, err error) {
	if file != nil {
		url, err := storage.Save(file, subPath)
		if err != nil {
			return "", false, fmt.Errorf("error saving file: %w", err)
		}
		return url, true, nil
	}
	if v := trimmed(fileURL); v != nil {
		return *v, false, nil
	}
	return "", false, apperrors.NewValidationError("file", "either a file upload or fileUrl is required")
}

// removeStoredFile deletes url from storage, ignoring links to external files.
func removeStoredFile(storage filestorage.FileStorage, logger zerolog.Logger, url string) {
	if err := storage.Delete(url); err != nil && !errors.Is(err, filestorage.ErrOutsideStorage) {
		logger.Warn().Err(err).Str("fileUrl", url).Msg("Failed to remove stored file")
	}
}

// FileLocation is where the content behind a material or submission lives.
// Exactly one of Path (a file in local storage) or URL (an external link) is set.
type FileLocation struct {
	Path string
	URL  string
}

func locateFile(storage filestorage.FileStorage, url string) (*FileLocation, error) {
	path, err := storage.Resolve(url)
	if err == nil {
		return &FileLocation{Path: path}, nil
	}
	if errors.Is(err, filestorage.ErrOutsideStorage) {
		return &FileLocation{URL: url}, nil
	}
	return nil, fmt.Errorf("error resolving file: %w", err)
}

// loadOwnedCourse fetches a course and checks that p created it.
func (s *MaterialService) loadOwnedCourse(ctx context.Context, p auth.Principal, courseID int64) (*models.Course, error) {
	if err := s.authz.Authorize(p, models.RoleFaculty); err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateCourseOwnership(p, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Create attaches a material to a course owned by p.
func (s *MaterialService) Create(ctx context.Context, p auth.Principal, courseID int64, req *dto.CreateMaterialRequest, file *multipart.FileHeader) (*models.CourseMaterial, error) {
	if _, err := s.loadOwnedCourse(ctx, p, courseID); err != nil {
		return nil, err
	}

	url, stored, err := resolveFileURL(s.storage, file, req.FileURL, fmt.Sprintf("materials/%d", courseID))
	if err != nil {
		return nil, err
	}

	m := &models.CourseMaterial{
		CourseID:    courseID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		FileURL:     url,
		UploadedBy:  p.ID,
	}
	if err := s.materials.Create(ctx, m); err != nil {
		if stored {
			removeStoredFile(s.storage, s.logger, url)
		}
		return nil, err
	}
	return m, nil
}

// ListByCourse returns the materials of a course p may read.
func (s *MaterialService) ListByCourse(ctx context.Context, p auth.Principal, courseID int64) ([]*models.CourseMaterial, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanReadCourse(p, course); err != nil {
		return nil, err
	}
	return s.materials.ListByCourse(ctx, courseID)
}

// File locates the content of a material for a reader of its course.
func (s *MaterialService) File(ctx context.Context, p auth.Principal, id int64) (*FileLocation, error) {
	m, err := s.materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, m.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanReadCourse(p, course); err != nil {
		return nil, err
	}
	return locateFile(s.storage, m.FileURL)
}

// loadOwned fetches a material and checks that p created its course.
func (s *MaterialService) loadOwned(ctx context.Context, p auth.Principal, id int64) (*models.CourseMaterial, error) {
	if err := s.authz.Authorize(p, models.RoleFaculty); err != nil {
		return nil, err
	}
	m, err := s.materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, m.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateCourseOwnership(p, course); err != nil {
		return nil, err
	}
	return m, nil
}

// Update applies the provided fields to a material of a course owned by p.
func (s *MaterialService) Update(ctx context.Context, p auth.Principal, id int64, req *dto.UpdateMaterialRequest) (*models.CourseMaterial, error) {
	m, err := s.loadOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	oldURL := m.FileURL
	if req.Title != nil {
		m.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if v := trimmed(req.FileURL); v != nil {
		m.FileURL = *v
	}
	if err := s.materials.Update(ctx, m); err != nil {
		return nil, err
	}
	if m.FileURL != oldURL {
		removeStoredFile(s.storage, s.logger, oldURL)
	}
	return m, nil
}

// Delete removes a material of a course owned by p and its stored file.
func (s *MaterialService) Delete(ctx context.Context, p auth.Principal, id int64) error {
	m, err := s.loadOwned(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.materials.Delete(ctx, id); err != nil {
		return err
	}
	removeStoredFile(s.storage, s.logger, m.FileURL)
	return nil
}
