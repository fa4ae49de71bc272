package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/campus/internal/app/auth"
	appControllers "github.com/yigit/campus/internal/app/controllers"
	appMigrations "github.com/yigit/campus/internal/app/migrations"
	appRepos "github.com/yigit/campus/internal/app/repositories"
	appRoutes "github.com/yigit/campus/internal/app/routes"
	appServices "github.com/yigit/campus/internal/app/services"
	"github.com/yigit/campus/internal/config"
	"github.com/yigit/campus/internal/db"
	appMiddleware "github.com/yigit/campus/internal/middleware"
	pkgAuth "github.com/yigit/campus/internal/pkg/auth"
	"github.com/yigit/campus/internal/pkg/filestorage"
	"github.com/yigit/campus/internal/pkg/logger"
	"github.com/yigit/campus/internal/pkg/metrics"
	"github.com/yigit/campus/internal/seed"
)

// DefaultConfigPath is used when CONFIG_PATH is not set.
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	LoginLimiter   *appMiddleware.RateLimiter
	Metrics        *metrics.HTTPMetrics
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	FileStorage    *filestorage.LocalStorage
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(strings.ToLower(cfg.Logging.Level))
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := logger.WithField("component", "api")
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds the default admin.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool).Migrate(ctx, appMigrations.Files()); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.AdminAccount{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}
	if err := seed.CreateDefaultAdmin(ctx, appRepos.NewUserRepository(dbPool), admin, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default admin, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, pool db.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.PublicBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.AuthzService = appAuth.NewAuthorizationService()
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(deps.Repos, deps.AuthzService, deps.JWTService, deps.FileStorage, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)
	deps.LoginLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst)
	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New(prometheus.NewRegistry())
	}

	s := deps.Services
	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(s.AuthService, lgr),
		User:         appControllers.NewUserController(s.UserService),
		Announcement: appControllers.NewAnnouncementController(s.AnnouncementService),
		Course:       appControllers.NewCourseController(s.CourseService, s.MaterialService),
		Material:     appControllers.NewMaterialController(s.MaterialService),
		Assignment:   appControllers.NewAssignmentController(s.AssignmentService, s.SubmissionService),
		Submission:   appControllers.NewSubmissionController(s.SubmissionService),
		Placement:    appControllers.NewPlacementController(s.PlacementService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET(cfg.Metrics.Path, deps.Metrics.Handler())
	}

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.LoginLimiter)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}
