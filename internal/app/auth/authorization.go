package auth

import (
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/pkg/apperrors"
)

// AuthorizationService decides what a principal may read or change. It holds no
// storage handles: callers load the resource (returning NotFound first) and then
// ask for a decision, or ask for a predicate to scope a listing query.
type AuthorizationService struct {
	now func() time.Time
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{now: time.Now}
}

// WithClock replaces the time source used to derive academic years.
func (s *AuthorizationService) WithClock(now func() time.Time) *AuthorizationService {
	s.now = now
	return s
}

// CurrentYear returns the calendar year academic years are computed against.
func (s *AuthorizationService) CurrentYear() int {
	return s.now().Year()
}

// Authorize is the coarse role gate applied before any relationship check.
func (s *AuthorizationService) Authorize(p Principal, roles ...models.RoleType) error {
	if p.HasRole(roles...) {
		return nil
	}
	return apperrors.NewForbiddenError("your role is not allowed to perform this action")
}

// FeedPredicate scopes the announcement feed for p at the current year.
func (s *AuthorizationService) FeedPredicate(p Principal) (squirrel.Sqlizer, error) {
	return FeedPredicate(p, s.CurrentYear())
}

// CanCreateAnnouncement allows admins and faculty.
func (s *AuthorizationService) CanCreateAnnouncement(p Principal) error {
	return s.Authorize(p, models.RoleAdmin, models.RoleFaculty)
}

// CanDeleteAnnouncement allows admins only.
func (s *AuthorizationService) CanDeleteAnnouncement(p Principal) error {
	return s.Authorize(p, models.RoleAdmin)
}

// CanReadAnnouncement allows admins, the author, and anyone whose feed contains a.
func (s *AuthorizationService) CanReadAnnouncement(p Principal, a *models.Announcement) error {
	if p.Role == models.RoleAdmin || a.CreatedBy == p.ID || AnnouncementVisible(p, a, s.CurrentYear()) {
		return nil
	}
	return apperrors.NewForbiddenError("announcement is not addressed to you")
}

// CourseFilter scopes a course listing aliased "c": students see courses they are
// enrolled in, faculty see courses they created.
func (s *AuthorizationService) CourseFilter(p Principal) (squirrel.Sqlizer, error) {
	switch p.Role {
	case models.RoleStudent:
		return squirrel.Expr("c.id IN (SELECT ce.course_id FROM course_enrollments ce WHERE ce.student_id = ?)", p.ID), nil
	case models.RoleFaculty:
		return squirrel.Eq{"c.created_by": p.ID}, nil
	}
	return nil, apperrors.NewForbiddenError("courses are only available to students and faculty")
}

// CanReadCourse allows enrolled students and the creating faculty member.
func (s *AuthorizationService) CanReadCourse(p Principal, course *models.Course) error {
	switch p.Role {
	case models.RoleStudent:
		if course.HasStudent(p.ID) {
			return nil
		}
		return apperrors.NewForbiddenError("you are not enrolled in this course")
	case models.RoleFaculty:
		if course.CreatedBy == p.ID {
			return nil
		}
		return apperrors.NewForbiddenError("you did not create this course")
	}
	return apperrors.NewForbiddenError("courses are only available to students and faculty")
}

// ValidateCourseOwnership allows only the faculty member who created the course.
// It also guards materials and assignments of the course.
func (s *AuthorizationService) ValidateCourseOwnership(p Principal, course *models.Course) error {
	if p.Role == models.RoleFaculty && course.CreatedBy == p.ID {
		return nil
	}
	return apperrors.NewForbiddenError("only the course creator can modify this course")
}

// CanReadAssignment follows the parent course's read rule.
func (s *AuthorizationService) CanReadAssignment(p Principal, course *models.Course) error {
	return s.CanReadCourse(p, course)
}

// ValidateAssignmentOwnership allows only the faculty member who created the assignment.
func (s *AuthorizationService) ValidateAssignmentOwnership(p Principal, a *models.Assignment) error {
	if p.Role == models.RoleFaculty && a.CreatedBy == p.ID {
		return nil
	}
	return apperrors.NewForbiddenError("only the assignment creator can modify this assignment")
}

// CanCreateSubmission allows students enrolled in the assignment's course.
func (s *AuthorizationService) CanCreateSubmission(p Principal, course *models.Course) error {
	if p.Role != models.RoleStudent {
		return apperrors.NewForbiddenError("only students can submit assignments")
	}
	if !course.HasStudent(p.ID) {
		return apperrors.NewForbiddenError("you are not enrolled in this course")
	}
	return nil
}

// SubmissionFilter scopes a submission listing aliased "s" joined to its
// assignment aliased "a".
func (s *AuthorizationService) SubmissionFilter(p Principal) (squirrel.Sqlizer, error) {
	switch p.Role {
	case models.RoleStudent:
		return squirrel.Eq{"s.student_id": p.ID}, nil
	case models.RoleFaculty:
		return squirrel.Eq{"a.created_by": p.ID}, nil
	}
	return nil, apperrors.NewForbiddenError("submissions are only available to students and faculty")
}

// CanReadSubmission allows the submitting student and the assignment's creator.
func (s *AuthorizationService) CanReadSubmission(p Principal, sub *models.Submission, a *models.Assignment) error {
	switch p.Role {
	case models.RoleStudent:
		if sub.StudentID == p.ID {
			return nil
		}
	case models.RoleFaculty:
		if a.CreatedBy == p.ID {
			return nil
		}
	}
	return apperrors.NewForbiddenError("you cannot view this submission")
}

// CanManagePlacements allows admins only.
func (s *AuthorizationService) CanManagePlacements(p Principal) error {
	return s.Authorize(p, models.RoleAdmin)
}

// PlacementFilter scopes a placement listing aliased "p". Admins get a nil
// predicate (no restriction). Students are matched on their roll number and
// email; student must be the principal's own user record.
func (s *AuthorizationService) PlacementFilter(p Principal, student *models.User) (squirrel.Sqlizer, error) {
	switch p.Role {
	case models.RoleAdmin:
		return nil, nil
	case models.RoleStudent:
		if student == nil || student.ID != p.ID {
			return nil, apperrors.NewForbiddenError("placement records are only visible to their student")
		}
		if student.StudentID == nil || *student.StudentID == "" {
			return squirrel.Expr("FALSE"), nil
		}
		return squirrel.And{
			squirrel.Eq{"p.student_id": *student.StudentID},
			squirrel.Expr("LOWER(p.email) = LOWER(?)", student.Email),
		}, nil
	}
	return nil, apperrors.NewForbiddenError("placement records are not available to your role")
}

// CanReadPlacement allows admins and the student the record belongs to.
func (s *AuthorizationService) CanReadPlacement(p Principal, rec *models.Placement, student *models.User) error {
	switch p.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleStudent:
		if student != nil && student.ID == p.ID && student.StudentID != nil &&
			*student.StudentID == rec.StudentID && strings.EqualFold(student.Email, rec.Email) {
			return nil
		}
	}
	return apperrors.NewForbiddenError("you cannot view this placement record")
}

// CanReadUser allows admins, the user themself, and faculty reading a student
// enrolled in one of their courses (sharesCourse).
func (s *AuthorizationService) CanReadUser(p Principal, target *models.User, sharesCourse bool) error {
	if p.Role == models.RoleAdmin || p.ID == target.ID {
		return nil
	}
	if p.Role == models.RoleFaculty && target.Role == models.RoleStudent && sharesCourse {
		return nil
	}
	return apperrors.NewForbiddenError("you cannot view this user")
}

// CanManageUsers allows admins only.
func (s *AuthorizationService) CanManageUsers(p Principal) error {
	return s.Authorize(p, models.RoleAdmin)
}
