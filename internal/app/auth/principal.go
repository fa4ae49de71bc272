package auth

import (
	"context"

	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/pkg/apperrors"
	jwtauth "github.com/yigit/campus/internal/pkg/auth"
)

// Principal is the authenticated actor behind a request. It is rebuilt from the
// signed token on every request and never stored.
type Principal struct {
	ID            int64
	Role          models.RoleType
	Department    *string
	AdmissionYear *int
}

// NewPrincipal validates the role-dependent fields. Department is kept only for
// students and faculty, admission year only for students.
func NewPrincipal(id int64, role models.RoleType, department *string, admissionYear *int) (Principal, error) {
	if id <= 0 {
		return Principal{}, apperrors.NewCustomError(apperrors.ErrInvalidPrincipal, "principal id must be positive")
	}
	if !role.Valid() {
		return Principal{}, apperrors.ErrInvalidRole
	}

	p := Principal{ID: id, Role: role}
	switch role {
	case models.RoleStudent:
		if department == nil || *department == "" {
			return Principal{}, apperrors.NewCustomError(apperrors.ErrInvalidPrincipal, "student principal requires a department")
		}
		if admissionYear == nil {
			return Principal{}, apperrors.NewCustomError(apperrors.ErrInvalidPrincipal, "student principal requires an admission year")
		}
		p.Department = department
		p.AdmissionYear = admissionYear
	case models.RoleFaculty:
		if department == nil || *department == "" {
			return Principal{}, apperrors.NewCustomError(apperrors.ErrInvalidPrincipal, "faculty principal requires a department")
		}
		p.Department = department
	}
	return p, nil
}

// PrincipalFromClaims resolves validated token claims to a principal.
func PrincipalFromClaims(claims *jwtauth.Claims) (Principal, error) {
	if claims == nil {
		return Principal{}, apperrors.ErrTokenInvalid
	}
	return NewPrincipal(claims.UserID, claims.Role, claims.Department, claims.AdmissionYear)
}

// PrincipalFromUser builds the principal a user would authenticate as.
func PrincipalFromUser(u *models.User) (Principal, error) {
	return NewPrincipal(u.ID, u.Role, u.Department, u.AdmissionYear)
}

// HasRole reports whether the principal holds one of roles.
func (p Principal) HasRole(roles ...models.RoleType) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// DepartmentValue returns the department or "" when unset.
func (p Principal) DepartmentValue() string {
	if p.Department == nil {
		return ""
	}
	return *p.Department
}

type principalKey struct{}

// ContextWithPrincipal stores p in ctx.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
