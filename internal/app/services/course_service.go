package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campus/internal/app/auth"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/pkg/apperrors"
)

// CourseService handles course operations
type CourseService struct {
	courses    CourseStore
	users      UserStore
	enrollment *EnrollmentService
	authz      *auth.AuthorizationService
	logger     zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courses CourseStore,
	users UserStore,
	enrollment *EnrollmentService,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) *CourseService {
	return &CourseService{
		courses:    courses,
		users:      users,
		enrollment: enrollment,
		authz:      authz,
		logger:     logger,
	}
}

func validateCourseYear(year int) error {
	if year < models.MinCourseYear || year > models.MaxCourseYear {
		return apperrors.NewValidationError("year", "year must be between %d and %d", models.MinCourseYear, models.MaxCourseYear)
	}
	return nil
}

// Create stores a course owned by p with its initial enrollment.
func (s *CourseService) Create(ctx context.Context, p auth.Principal, req *dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.authz.Authorize(p, models.RoleFaculty); err != nil {
		return nil, err
	}
	if err := validateCourseYear(req.Year); err != nil {
		return nil, err
	}

	course := &models.Course{
		CourseCode: strings.TrimSpace(req.CourseCode),
		CourseName: strings.TrimSpace(req.CourseName),
		Department: strings.TrimSpace(req.Department),
		Year:       req.Year,
		CreatedBy:  p.ID,
	}
	ids, err := s.enrollment.Compute(ctx, course.Department, course.Year)
	if err != nil {
		return nil, err
	}
	course.EnrolledStudents = ids

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("courseId", course.ID).
		Int64("createdBy", p.ID).
		Int("enrolled", len(ids)).
		Msg("Course created")
	return course, nil
}

// GetByID returns a course the principal is enrolled in or created.
func (s *CourseService) GetByID(ctx context.Context, p auth.Principal, id int64) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanReadCourse(p, course); err != nil {
		return nil, err
	}
	return course, nil
}

// ListForStudent returns the courses p is enrolled in.
func (s *CourseService) ListForStudent(ctx context.Context, p auth.Principal) ([]*models.Course, error) {
	if err := s.authz.Authorize(p, models.RoleStudent); err != nil {
		return nil, err
	}
	return s.list(ctx, p)
}

// ListForFaculty returns the courses p created.
func (s *CourseService) ListForFaculty(ctx context.Context, p auth.Principal) ([]*models.Course, error) {
	if err := s.authz.Authorize(p, models.RoleFaculty); err != nil {
		return nil, err
	}
	return s.list(ctx, p)
}

func (s *CourseService) list(ctx context.Context, p auth.Principal) ([]*models.Course, error) {
	where, err := s.authz.CourseFilter(p)
	if err != nil {
		return nil, err
	}
	return s.courses.List(ctx, where)
}

// loadOwned fetches a course and checks that p created it.
func (s *CourseService) loadOwned(ctx context.Context, p auth.Principal, id int64) (*models.Course, error) {
	if err := s.authz.Authorize(p, models.RoleFaculty); err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateCourseOwnership(p, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Update applies the provided fields. A department or year change recomputes
// enrollment in the same transaction as the update.
func (s *CourseService) Update(ctx context.Context, p auth.Principal, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.loadOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	resync := false
	if req.CourseCode != nil {
		course.CourseCode = strings.TrimSpace(*req.CourseCode)
	}
	if req.CourseName != nil {
		course.CourseName = strings.TrimSpace(*req.CourseName)
	}
	if req.Department != nil {
		dept := strings.TrimSpace(*req.Department)
		if dept != course.Department {
			course.Department = dept
			resync = true
		}
	}
	if req.Year != nil {
		if err := validateCourseYear(*req.Year); err != nil {
			return nil, err
		}
		if *req.Year != course.Year {
			course.Year = *req.Year
			resync = true
		}
	}

	if resync {
		ids, err := s.enrollment.Compute(ctx, course.Department, course.Year)
		if err != nil {
			return nil, err
		}
		course.EnrolledStudents = ids
	}
	if err := s.courses.Update(ctx, course, resync); err != nil {
		return nil, err
	}
	return course, nil
}

// Sync recomputes enrollment of a course owned by p.
func (s *CourseService) Sync(ctx context.Context, p auth.Principal, id int64) (*models.Course, error) {
	course, err := s.loadOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return s.enrollment.Sync(ctx, course)
}

// Delete removes a course owned by p along with its materials and assignments.
func (s *CourseService) Delete(ctx context.Context, p auth.Principal, id int64) error {
	if _, err := s.loadOwned(ctx, p, id); err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("courseId", id).Int64("deletedBy", p.ID).Msg("Course deleted")
	return nil
}

// Students returns the enrolled students of a course owned by p.
func (s *CourseService) Students(ctx context.Context, p auth.Principal, id int64) ([]*models.User, error) {
	course, err := s.loadOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if len(course.EnrolledStudents) == 0 {
		return []*models.User{}, nil
	}
	return s.users.GetByIDs(ctx, course.EnrolledStudents)
}
