package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/pkg/helpers"
)

// EnrollmentService derives a course's enrolled students from its department and
// year. It is the only writer of course enrollment.
type EnrollmentService struct {
	users       UserStore
	courses     CourseStore
	currentYear func() int
	logger      zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(users UserStore, courses CourseStore, currentYear func() int, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		users:       users,
		courses:     courses,
		currentYear: currentYear,
		logger:      logger,
	}
}

// Compute returns the ids of students in department whose admission year puts
// them in courseYear this calendar year, sorted ascending.
func (s *EnrollmentService) Compute(ctx context.Context, department string, courseYear int) ([]int64, error) {
	admissionYear := helpers.AdmissionYearForCourseYear(courseYear, s.currentYear())
	ids, err := s.users.FindStudentIDsByCohort(ctx, department, admissionYear)
	if err != nil {
		return nil, fmt.Errorf("error computing enrollment: %w", err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Sync recomputes and atomically replaces the enrolled set of course.
func (s *EnrollmentService) Sync(ctx context.Context, course *models.Course) (*models.Course, error) {
	ids, err := s.Compute(ctx, course.Department, course.Year)
	if err != nil {
		return nil, err
	}
	if err := s.courses.ReplaceEnrollment(ctx, course.ID, ids); err != nil {
		return nil, err
	}
	course.EnrolledStudents = ids

	s.logger.Info().
		Int64("courseId", course.ID).
		Int("enrolled", len(ids)).
		Msg("Course enrollment synchronized")
	return course, nil
}
