package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/pkg/apperrors"
	"github.com/yigit/campus/internal/pkg/auth"
	"github.com/yigit/campus/internal/pkg/validation"
)

// UserStore is the part of the user repository seeding needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*appModels.User, error)
	Create(ctx context.Context, u *appModels.User) error
}

// AdminAccount describes the bootstrap administrator.
type AdminAccount struct {
	Name     string
	Email    string
	Password string
}

// CreateDefaultAdmin creates the bootstrap admin account if it does not exist yet.
// An empty email disables seeding. Admins cannot self-register, so this is the
// only way the first one comes into being.
func CreateDefaultAdmin(ctx context.Context, users UserStore, account AdminAccount, lgr zerolog.Logger) error {
	if strings.TrimSpace(account.Email) == "" {
		lgr.Debug().Msg("No default admin configured, skipping seed")
		return nil
	}

	email := validation.NormalizeEmail(account.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := validation.ValidatePassword(account.Password); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != appModels.RoleAdmin {
			lgr.Warn().Str("email", email).Str("role", string(existing.Role)).
				Msg("Default admin email belongs to a non-admin account, leaving it unchanged")
		}
		return nil
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return fmt.Errorf("seed admin lookup: %w", err)
	}

	name := strings.TrimSpace(account.Name)
	if name == "" {
		name = "Administrator"
	}

	hashed, err := auth.HashPassword(account.Password)
	if err != nil {
		return fmt.Errorf("seed admin: error hashing password: %w", err)
	}

	admin := &appModels.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     appModels.RoleAdmin,
		Status:   appModels.StatusActive,
	}
	if err := users.Create(ctx, admin); err != nil {
		// another instance may have seeded concurrently
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return fmt.Errorf("seed admin create: %w", err)
	}

	lgr.Info().Int64("userId", admin.ID).Str("email", email).Msg("Default admin account created")
	return nil
}
