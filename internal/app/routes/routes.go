package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campus/internal/app/controllers"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/middleware"
)

// Controllers groups the handlers mounted under /api/v1.
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Announcement *controllers.AnnouncementController
	Course       *controllers.CourseController
	Material     *controllers.MaterialController
	Assignment   *controllers.AssignmentController
	Submission   *controllers.SubmissionController
	Placement    *controllers.PlacementController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	loginLimiter *middleware.RateLimiter,
) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", loginLimiter.Middleware(), c.Auth.Login)
	}

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	students := authMiddleware.RoleRequired(models.RoleStudent)
	faculty := authMiddleware.RoleRequired(models.RoleFaculty)
	admins := authMiddleware.RoleRequired(models.RoleAdmin)
	staff := authMiddleware.RoleRequired(models.RoleFaculty, models.RoleAdmin)

	authenticated.GET("/auth/me", c.Auth.Me)

	users := authenticated.Group("/users")
	{
		// faculty may read their own students, so GET /:id is not admin-only
		users.GET("/:id", c.User.GetByID)

		usersAdmin := users.Group("", admins)
		{
			usersAdmin.POST("", c.User.Create)
			usersAdmin.GET("", c.User.List)
			usersAdmin.PUT("/:id", c.User.Update)
			usersAdmin.PATCH("/:id/status", c.User.UpdateStatus)
			usersAdmin.DELETE("/:id", c.User.Delete)
		}
	}

	announcements := authenticated.Group("/announcements")
	{
		announcements.GET("/feed", c.Announcement.Feed)
		announcements.GET("/:id", c.Announcement.GetByID)
		announcements.POST("", staff, c.Announcement.Create)
		announcements.GET("", admins, c.Announcement.ListAll)
		announcements.DELETE("/:id", admins, c.Announcement.Delete)
	}

	courses := authenticated.Group("/courses")
	{
		courses.GET("/student", students, c.Course.ListForStudent)
		courses.GET("/faculty", faculty, c.Course.ListForFaculty)
		courses.GET("/:id", c.Course.GetByID)
		courses.GET("/:id/materials", c.Course.ListMaterials)

		coursesFaculty := courses.Group("", faculty)
		{
			coursesFaculty.POST("", c.Course.Create)
			coursesFaculty.PUT("/:id", c.Course.Update)
			coursesFaculty.DELETE("/:id", c.Course.Delete)
			coursesFaculty.PUT("/:id/sync", c.Course.Sync)
			coursesFaculty.GET("/:id/students", c.Course.Students)
			coursesFaculty.POST("/:id/materials", c.Course.CreateMaterial)
		}
	}

	materials := authenticated.Group("/materials")
	{
		materials.GET("/:id/file", c.Material.File)
		materials.PUT("/:id", faculty, c.Material.Update)
		materials.DELETE("/:id", faculty, c.Material.Delete)
	}

	assignments := authenticated.Group("/assignments")
	{
		assignments.GET("/student", students, c.Assignment.ListForStudent)
		assignments.GET("/course/:id", c.Assignment.ListByCourse)
		assignments.GET("/:id", c.Assignment.GetByID)
		assignments.GET("/:id/status", c.Assignment.Status)
		assignments.GET("/:id/submissions", c.Assignment.Submissions)
		assignments.POST("/:id/submissions", students, c.Assignment.Submit)

		assignmentsFaculty := assignments.Group("", faculty)
		{
			assignmentsFaculty.POST("", c.Assignment.Create)
			assignmentsFaculty.PUT("/:id", c.Assignment.Update)
			assignmentsFaculty.DELETE("/:id", c.Assignment.Delete)
		}
	}

	submissions := authenticated.Group("/submissions")
	{
		submissions.GET("/me", students, c.Submission.ListMine)
		submissions.GET("/:id", c.Submission.GetByID)
		submissions.GET("/:id/file", c.Submission.File)
	}

	placements := authenticated.Group("/placements")
	{
		placements.GET("/student", students, c.Placement.ListMine)
		placements.GET("/:id", c.Placement.GetByID)

		placementsAdmin := placements.Group("", admins)
		{
			placementsAdmin.POST("", c.Placement.Create)
			placementsAdmin.GET("", c.Placement.List)
			placementsAdmin.GET("/summary", c.Placement.Summary)
			placementsAdmin.PUT("/:id", c.Placement.Update)
			placementsAdmin.DELETE("/:id", c.Placement.Delete)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
}
