package auth

import (
	"github.com/Masterminds/squirrel"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/pkg/apperrors"
	"github.com/yigit/campus/internal/pkg/helpers"
)

// Announcement columns referenced by the feed predicate. Queries must alias the
// announcements table as "a".
const (
	colAudience   = "a.audience"
	colDepartment = "a.department"
	colYear       = "a.year"
	colCreatedBy  = "a.created_by"
)

// FeedPredicate builds the WHERE clause selecting the announcements p may see.
//
// Every feed includes audience "all". Students additionally see audience
// "students" announcements through four mutually exclusive alternatives:
// unscoped, own department only, own year only, and both. Each alternative pins
// the unused tag to NULL so an announcement for another department with no year
// never leaks in. Faculty see audience "faculty" announcements that are
// unscoped or scoped to their department, plus anything they authored. Admins
// see audience "admin".
func FeedPredicate(p Principal, currentYear int) (squirrel.Sqlizer, error) {
	all := squirrel.Eq{colAudience: string(models.AudienceAll)}

	switch p.Role {
	case models.RoleStudent:
		if p.Department == nil || p.AdmissionYear == nil {
			return nil, apperrors.ErrInvalidPrincipal
		}
		dept := *p.Department
		year := helpers.AcademicYear(*p.AdmissionYear, currentYear)
		students := squirrel.Eq{colAudience: string(models.AudienceStudents)}

		return squirrel.Or{
			all,
			squirrel.And{students, squirrel.Eq{colDepartment: nil}, squirrel.Eq{colYear: nil}},
			squirrel.And{students, squirrel.Eq{colDepartment: dept}, squirrel.Eq{colYear: nil}},
			squirrel.And{students, squirrel.Eq{colDepartment: nil}, squirrel.Eq{colYear: year}},
			squirrel.And{students, squirrel.Eq{colDepartment: dept}, squirrel.Eq{colYear: year}},
		}, nil

	case models.RoleFaculty:
		if p.Department == nil {
			return nil, apperrors.ErrInvalidPrincipal
		}
		faculty := squirrel.Eq{colAudience: string(models.AudienceFaculty)}

		return squirrel.Or{
			all,
			squirrel.And{faculty, squirrel.Eq{colDepartment: nil}},
			squirrel.And{faculty, squirrel.Eq{colDepartment: *p.Department}},
			squirrel.Eq{colCreatedBy: p.ID},
		}, nil

	case models.RoleAdmin:
		return squirrel.Or{
			all,
			squirrel.Eq{colAudience: string(models.AudienceAdmin)},
		}, nil
	}

	return nil, apperrors.ErrInvalidRole
}

// AnnouncementVisible evaluates the feed rule for a single announcement.
// It must agree with FeedPredicate for every principal.
func AnnouncementVisible(p Principal, a *models.Announcement, currentYear int) bool {
	tags := a.Tags
	if tags.Audience == models.AudienceAll {
		return true
	}

	switch p.Role {
	case models.RoleStudent:
		if tags.Audience != models.AudienceStudents || p.Department == nil || p.AdmissionYear == nil {
			return false
		}
		if tags.Department != nil && *tags.Department != *p.Department {
			return false
		}
		if tags.Year != nil && *tags.Year != helpers.AcademicYear(*p.AdmissionYear, currentYear) {
			return false
		}
		return true

	case models.RoleFaculty:
		if a.CreatedBy == p.ID {
			return true
		}
		if tags.Audience != models.AudienceFaculty || p.Department == nil {
			return false
		}
		return tags.Department == nil || *tags.Department == *p.Department

	case models.RoleAdmin:
		return tags.Audience == models.AudienceAdmin
	}

	return false
}
