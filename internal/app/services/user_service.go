package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campus/internal/app/auth"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/app/repositories"
	"github.com/yigit/campus/internal/pkg/apperrors"
	jwtauth "github.com/yigit/campus/internal/pkg/auth"
	"github.com/yigit/campus/internal/pkg/validation"
)

// UserService handles account management
type UserService struct {
	users   UserStore
	courses CourseStore
	authz   *auth.AuthorizationService
	logger  zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users UserStore, courses CourseStore, authz *auth.AuthorizationService, logger zerolog.Logger) *UserService {
	return &UserService{
		users:   users,
		courses: courses,
		authz:   authz,
		logger:  logger,
	}
}

// trimmed returns nil for nil or blank values.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// applyRoleProfile enforces the role-dependent profile fields: department for
// students and faculty, admission year for students. Fields that do not apply
// to the role are cleared.
func applyRoleProfile(u *models.User) error {
	if !u.Role.Valid() {
		return apperrors.ErrInvalidRole
	}
	u.Department = trimmed(u.Department)
	u.StudentID = trimmed(u.StudentID)
	u.FacultyID = trimmed(u.FacultyID)

	switch u.Role {
	case models.RoleStudent:
		if u.Department == nil {
			return apperrors.NewValidationError("department", "department is required for students")
		}
		if u.AdmissionYear == nil {
			return apperrors.NewValidationError("year", "admission year is required for students")
		}
		u.FacultyID = nil
	case models.RoleFaculty:
		if u.Department == nil {
			return apperrors.NewValidationError("department", "department is required for faculty")
		}
		u.AdmissionYear = nil
		u.StudentID = nil
	case models.RoleAdmin:
		u.Department = nil
		u.AdmissionYear = nil
		u.StudentID = nil
		u.FacultyID = nil
	}
	return nil
}

// createUser validates and stores a new account. Callers decide which roles may be created.
func (s *UserService) createUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	email := validation.NormalizeEmail(req.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "name cannot be empty")
	}

	user := &models.User{
		Name:          name,
		Email:         email,
		Role:          req.Role,
		Department:    req.Department,
		AdmissionYear: req.AdmissionYear,
		StudentID:     req.StudentID,
		FacultyID:     req.FacultyID,
		Phone:         trimmed(req.Phone),
		Status:        models.StatusActive,
	}
	if err := applyRoleProfile(user); err != nil {
		return nil, err
	}

	hashed, err := jwtauth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	user.Password = hashed

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", user.ID).Str("role", string(user.Role)).Msg("User created")
	return user, nil
}

// Create lets an admin create an account of any role.
func (s *UserService) Create(ctx context.Context, p auth.Principal, req *dto.CreateUserRequest) (*models.User, error) {
	if err := s.authz.CanManageUsers(p); err != nil {
		return nil, err
	}
	return s.createUser(ctx, req)
}

// GetByID returns the user and whether the caller may see the full profile.
// Faculty reading one of their students only get basic fields.
func (s *UserService) GetByID(ctx context.Context, p auth.Principal, id int64) (*models.User, bool, error) {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	sharesCourse := false
	if p.Role == models.RoleFaculty && target.Role == models.RoleStudent && target.ID != p.ID {
		sharesCourse, err = s.courses.IsStudentTaughtBy(ctx, p.ID, target.ID)
		if err != nil {
			return nil, false, fmt.Errorf("error checking enrollment: %w", err)
		}
	}
	if err := s.authz.CanReadUser(p, target, sharesCourse); err != nil {
		return nil, false, err
	}

	full := p.Role == models.RoleAdmin || p.ID == target.ID
	return target, full, nil
}

// List returns a filtered page of users for admins.
func (s *UserService) List(ctx context.Context, p auth.Principal, filter *dto.UserFilterRequest) ([]*models.User, dto.PaginationInfo, error) {
	if err := s.authz.CanManageUsers(p); err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return s.users.List(ctx, repositories.UserListParams{
		Role:       filter.Role,
		Department: filter.Department,
		Status:     filter.Status,
		Search:     filter.Search,
		Page:       filter.Page,
		Size:       filter.Size,
	})
}

// Update applies the provided fields and re-checks the role profile.
func (s *UserService) Update(ctx context.Context, p auth.Principal, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	if err := s.authz.CanManageUsers(p); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name", "name cannot be empty")
		}
		user.Name = name
	}
	if req.Email != nil {
		email := validation.NormalizeEmail(*req.Email)
		if err := validation.ValidateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if req.Role != nil {
		if id == p.ID && *req.Role != models.RoleAdmin {
			return nil, apperrors.NewValidationError("role", "you cannot change your own role")
		}
		user.Role = *req.Role
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.AdmissionYear != nil {
		user.AdmissionYear = req.AdmissionYear
	}
	if req.StudentID != nil {
		user.StudentID = req.StudentID
	}
	if req.FacultyID != nil {
		user.FacultyID = req.FacultyID
	}
	if req.Phone != nil {
		user.Phone = trimmed(req.Phone)
	}
	if err := applyRoleProfile(user); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateStatus activates or deactivates an account.
func (s *UserService) UpdateStatus(ctx context.Context, p auth.Principal, id int64, status models.UserStatus) error {
	if err := s.authz.CanManageUsers(p); err != nil {
		return err
	}
	if !status.Valid() {
		return apperrors.NewValidationError("status", "status must be active or inactive")
	}
	if id == p.ID && status == models.StatusInactive {
		return apperrors.NewValidationError("status", "you cannot deactivate your own account")
	}
	if err := s.users.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Info().Int64("userId", id).Str("status", string(status)).Msg("User status changed")
	return nil
}

// Delete removes an account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, p auth.Principal, id int64) error {
	if err := s.authz.CanManageUsers(p); err != nil {
		return err
	}
	if id == p.ID {
		return apperrors.NewValidationError("id", "you cannot delete your own account")
	}
	return s.users.Delete(ctx, id)
}
