package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campus/internal/app/auth"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/pkg/apperrors"
	"github.com/yigit/campus/internal/pkg/helpers"
)

// AssignmentService handles assignments and their submission status
type AssignmentService struct {
	assignments AssignmentStore
	courses     CourseStore
	submissions SubmissionStore
	authz       *auth.AuthorizationService
	logger      zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	assignments AssignmentStore,
	courses CourseStore,
	submissions SubmissionStore,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		courses:     courses,
		submissions: submissions,
		authz:       authz,
		logger:      logger,
	}
}

// Create adds an assignment to a course owned by p.
func (s *AssignmentService) Create(ctx context.Context, p auth.Principal, req *dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.authz.Authorize(p, models.RoleFaculty); err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateCourseOwnership(p, course); err != nil {
		return nil, err
	}
	due, err := helpers.ParseDate(req.DueDate)
	if err != nil {
		return nil, apperrors.NewValidationError("dueDate", "dueDate must be YYYY-MM-DD or RFC3339")
	}

	a := &models.Assignment{
		CourseID:    course.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     due,
		CreatedBy:   p.ID,
	}
	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("assignmentId", a.ID).Int64("courseId", course.ID).Msg("Assignment created")
	return a, nil
}

// ListByCourse returns the assignments of a course p may read.
func (s *AssignmentService) ListByCourse(ctx context.Context, p auth.Principal, courseID int64) ([]*models.Assignment, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanReadAssignment(p, course); err != nil {
		return nil, err
	}
	return s.assignments.ListByCourse(ctx, courseID)
}

// ListForStudent returns the assignments of every course p is enrolled in.
func (s *AssignmentService) ListForStudent(ctx context.Context, p auth.Principal) ([]*models.Assignment, error) {
	if err := s.authz.Authorize(p, models.RoleStudent); err != nil {
		return nil, err
	}
	return s.assignments.ListForStudent(ctx, p.ID)
}

// load fetches an assignment with its course and checks p may read it.
func (s *AssignmentService) load(ctx context.Context, p auth.Principal, id int64) (*models.Assignment, *models.Course, error) {
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	course, err := s.courses.GetByID(ctx, a.CourseID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authz.CanReadAssignment(p, course); err != nil {
		return nil, nil, err
	}
	return a, course, nil
}

// GetByID returns an assignment p may read.
func (s *AssignmentService) GetByID(ctx context.Context, p auth.Principal, id int64) (*models.Assignment, error) {
	a, _, err := s.load(ctx, p, id)
	return a, err
}

// loadOwned fetches an assignment and checks that p created it.
func (s *AssignmentService) loadOwned(ctx context.Context, p auth.Principal, id int64) (*models.Assignment, error) {
	if err := s.authz.Authorize(p, models.RoleFaculty); err != nil {
		return nil, err
	}
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateAssignmentOwnership(p, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update applies the provided fields to an assignment created by p.
func (s *AssignmentService) Update(ctx context.Context, p auth.Principal, id int64, req *dto.UpdateAssignmentRequest) (*models.Assignment, error) {
	a, err := s.loadOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.DueDate != nil {
		due, err := helpers.ParseDate(*req.DueDate)
		if err != nil {
			return nil, apperrors.NewValidationError("dueDate", "dueDate must be YYYY-MM-DD or RFC3339")
		}
		a.DueDate = due
	}
	if err := s.assignments.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an assignment created by p together with its submissions.
func (s *AssignmentService) Delete(ctx context.Context, p auth.Principal, id int64) error {
	if _, err := s.loadOwned(ctx, p, id); err != nil {
		return err
	}
	return s.assignments.Delete(ctx, id)
}

// Status reports the student's own submission state, or for the assignment's
// creator how many currently enrolled students have submitted.
func (s *AssignmentService) Status(ctx context.Context, p auth.Principal, id int64) (*dto.AssignmentStatusResponse, error) {
	a, course, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	resp := &dto.AssignmentStatusResponse{AssignmentID: a.ID, DueDate: a.DueDate}

	if p.Role == models.RoleStudent {
		submitted := false
		sub, err := s.submissions.GetByAssignmentAndStudent(ctx, a.ID, p.ID)
		switch {
		case err == nil:
			submitted = true
			late := sub.IsLate(a)
			resp.SubmittedAt = &sub.SubmittedAt
			resp.FileURL = &sub.FileURL
			resp.Late = &late
		case !errors.Is(err, apperrors.ErrSubmissionNotFound):
			return nil, err
		}
		resp.Submitted = &submitted
		return resp, nil
	}

	if err := s.authz.ValidateAssignmentOwnership(p, a); err != nil {
		return nil, err
	}
	visibility, err := s.authz.SubmissionFilter(p)
	if err != nil {
		return nil, err
	}
	subs, err := s.submissions.List(ctx, visibility, &a.ID)
	if err != nil {
		return nil, err
	}

	enrolled := len(course.EnrolledStudents)
	submitted := 0
	for _, sub := range subs {
		if course.HasStudent(sub.StudentID) {
			submitted++
		}
	}
	pending := enrolled - submitted
	resp.Enrolled = &enrolled
	resp.SubmitCount = &submitted
	resp.PendingCount = &pending
	return resp, nil
}
