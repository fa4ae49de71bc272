package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/campus/internal/app/auth"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/pkg/apperrors"
	jwtauth "github.com/yigit/campus/internal/pkg/auth"
	"github.com/yigit/campus/internal/pkg/validation"
)

// AuthService handles authentication operations
type AuthService struct {
	users       UserStore
	userService *UserService
	jwtService  *jwtauth.JWTService
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, userService *UserService, jwtService *jwtauth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:       users,
		userService: userService,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Register creates a student or faculty account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, req *dto.CreateUserRequest) (*dto.AuthResponse, error) {
	if req.Role != models.RoleStudent && req.Role != models.RoleFaculty {
		return nil, fmt.Errorf("%w: only student and faculty accounts can self-register", apperrors.ErrInvalidRole)
	}

	user, err := s.userService.createUser(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.generateAuthResponse(user)
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := validation.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !jwtauth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Int64("userId", user.ID).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, apperrors.ErrAccountDisabled
	}

	return s.generateAuthResponse(user)
}

// Me returns the principal's own profile.
func (s *AuthService) Me(ctx context.Context, p auth.Principal) (*models.User, error) {
	return s.users.GetByID(ctx, p.ID)
}

// generateAuthResponse issues an access token for user.
func (s *AuthService) generateAuthResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.ToUserResponse(user),
	}, nil
}
