package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"
	"github.com/yigit/campus/internal/app/auth"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/pkg/filestorage"
)

// SubmissionService handles assignment submissions
type SubmissionService struct {
	submissions SubmissionStore
	assignments AssignmentStore
	courses     CourseStore
	storage     filestorage.FileStorage
	authz       *auth.AuthorizationService
	logger      zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	submissions SubmissionStore,
	assignments AssignmentStore,
	courses CourseStore,
	storage filestorage.FileStorage,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		assignments: assignments,
		courses:     courses,
		storage:     storage,
		authz:       authz,
		logger:      logger,
	}
}

// Create stores p's single submission for an assignment of a course they are
// enrolled in. Uniqueness is enforced by the store, so a concurrent duplicate
// fails with ErrSubmissionExists instead of creating a second row.
func (s *SubmissionService) Create(ctx context.Context, p auth.Principal, assignmentID int64, req *dto.CreateSubmissionRequest, file *multipart.FileHeader) (*models.Submission, error) {
	if err := s.authz.Authorize(p, models.RoleStudent); err != nil {
		return nil, err
	}
	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, a.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanCreateSubmission(p, course); err != nil {
		return nil, err
	}

	url, stored, err := resolveFileURL(s.storage, file, req.FileURL, fmt.Sprintf("submissions/%d", a.ID))
	if err != nil {
		return nil, err
	}

	sub := &models.Submission{
		AssignmentID: a.ID,
		StudentID:    p.ID,
		FileURL:      url,
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		if stored {
			removeStoredFile(s.storage, s.logger, url)
		}
		return nil, err
	}

	s.logger.Info().
		Int64("submissionId", sub.ID).
		Int64("assignmentId", a.ID).
		Int64("studentId", p.ID).
		Bool("late", sub.IsLate(a)).
		Msg("Assignment submitted")
	return sub, nil
}

// ListMine returns every submission made by p.
func (s *SubmissionService) ListMine(ctx context.Context, p auth.Principal) ([]*models.Submission, error) {
	if err := s.authz.Authorize(p, models.RoleStudent); err != nil {
		return nil, err
	}
	visibility, err := s.authz.SubmissionFilter(p)
	if err != nil {
		return nil, err
	}
	return s.submissions.List(ctx, visibility, nil)
}

// ListForAssignment returns the submissions of an assignment visible to p:
// all of them for its creator, only their own for an enrolled student.
func (s *SubmissionService) ListForAssignment(ctx context.Context, p auth.Principal, assignmentID int64) ([]*models.Submission, error) {
	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	switch p.Role {
	case models.RoleFaculty:
		if err := s.authz.ValidateAssignmentOwnership(p, a); err != nil {
			return nil, err
		}
	default:
		course, err := s.courses.GetByID(ctx, a.CourseID)
		if err != nil {
			return nil, err
		}
		if err := s.authz.CanReadAssignment(p, course); err != nil {
			return nil, err
		}
	}

	visibility, err := s.authz.SubmissionFilter(p)
	if err != nil {
		return nil, err
	}
	return s.submissions.List(ctx, visibility, &a.ID)
}

// GetByID returns one submission to its student or the assignment's creator.
func (s *SubmissionService) GetByID(ctx context.Context, p auth.Principal, id int64) (*models.Submission, error) {
	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a, err := s.assignments.GetByID(ctx, sub.AssignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanReadSubmission(p, sub, a); err != nil {
		return nil, err
	}
	return sub, nil
}

// File locates the uploaded work of a submission for its student or the assignment's creator.
func (s *SubmissionService) File(ctx context.Context, p auth.Principal, id int64) (*FileLocation, error) {
	sub, err := s.GetByID(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return locateFile(s.storage, sub.FileURL)
}
