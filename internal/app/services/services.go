package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/campus/internal/app/auth"
	"github.com/yigit/campus/internal/app/repositories"
	jwtauth "github.com/yigit/campus/internal/pkg/auth"
	"github.com/yigit/campus/internal/pkg/filestorage"
)

// Services holds all the service instances
type Services struct {
	AuthService         *AuthService
	UserService         *UserService
	AnnouncementService *AnnouncementService
	EnrollmentService   *EnrollmentService
	CourseService       *CourseService
	MaterialService     *MaterialService
	AssignmentService   *AssignmentService
	SubmissionService   *SubmissionService
	PlacementService    *PlacementService
}

// NewServices wires every service over the given repositories.
func NewServices(
	repos *repositories.Repositories,
	authz *auth.AuthorizationService,
	jwtService *jwtauth.JWTService,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *Services {
	userService := NewUserService(repos.UserRepository, repos.CourseRepository, authz, logger)
	enrollmentService := NewEnrollmentService(repos.UserRepository, repos.CourseRepository, authz.CurrentYear, logger)

	return &Services{
		AuthService:         NewAuthService(repos.UserRepository, userService, jwtService, logger),
		UserService:         userService,
		AnnouncementService: NewAnnouncementService(repos.AnnouncementRepository, authz, logger),
		EnrollmentService:   enrollmentService,
		CourseService:       NewCourseService(repos.CourseRepository, repos.UserRepository, enrollmentService, authz, logger),
		MaterialService:     NewMaterialService(repos.MaterialRepository, repos.CourseRepository, storage, authz, logger),
		AssignmentService: NewAssignmentService(repos.AssignmentRepository, repos.CourseRepository,
			repos.SubmissionRepository, authz, logger),
		SubmissionService: NewSubmissionService(repos.SubmissionRepository, repos.AssignmentRepository,
			repos.CourseRepository, storage, authz, logger),
		PlacementService: NewPlacementService(repos.PlacementRepository, repos.UserRepository, authz, logger),
	}
}
