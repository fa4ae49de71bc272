package services

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/app/repositories"
)

// The store interfaces below are the subsets of the repositories each service
// uses. The concrete *repositories types satisfy them.

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetStudentByRollNumber(ctx context.Context, studentID string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	List(ctx context.Context, params repositories.UserListParams) ([]*models.User, dto.PaginationInfo, error)
	FindStudentIDsByCohort(ctx context.Context, department string, admissionYear int) ([]int64, error)
	Update(ctx context.Context, u *models.User) error
	UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error
	Delete(ctx context.Context, id int64) error
}

type AnnouncementStore interface {
	Create(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
	List(ctx context.Context, where squirrel.Sqlizer) ([]*models.Announcement, error)
	Delete(ctx context.Context, id int64) error
}

type CourseStore interface {
	Create(ctx context.Context, c *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, where squirrel.Sqlizer) ([]*models.Course, error)
	Update(ctx context.Context, c *models.Course, resync bool) error
	ReplaceEnrollment(ctx context.Context, courseID int64, studentIDs []int64) error
	Delete(ctx context.Context, id int64) error
	IsStudentTaughtBy(ctx context.Context, facultyID, studentID int64) (bool, error)
}

type MaterialStore interface {
	Create(ctx context.Context, m *models.CourseMaterial) error
	GetByID(ctx context.Context, id int64) (*models.CourseMaterial, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.CourseMaterial, error)
	Update(ctx context.Context, m *models.CourseMaterial) error
	Delete(ctx context.Context, id int64) error
}

type AssignmentStore interface {
	Create(ctx context.Context, a *models.Assignment) error
	GetByID(ctx context.Context, id int64) (*models.Assignment, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Assignment, error)
	ListForStudent(ctx context.Context, studentID int64) ([]*models.Assignment, error)
	Update(ctx context.Context, a *models.Assignment) error
	Delete(ctx context.Context, id int64) error
}

type SubmissionStore interface {
	Create(ctx context.Context, s *models.Submission) error
	GetByID(ctx context.Context, id int64) (*models.Submission, error)
	GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID int64) (*models.Submission, error)
	List(ctx context.Context, visibility squirrel.Sqlizer, assignmentID *int64) ([]*models.Submission, error)
}

type PlacementStore interface {
	Create(ctx context.Context, p *models.Placement) error
	GetByID(ctx context.Context, id int64) (*models.Placement, error)
	List(ctx context.Context, visibility squirrel.Sqlizer, params repositories.PlacementListParams) ([]*models.Placement, dto.PaginationInfo, error)
	ListAll(ctx context.Context, params repositories.PlacementListParams) ([]*models.Placement, error)
	Update(ctx context.Context, p *models.Placement) error
	Delete(ctx context.Context, id int64) error
}
