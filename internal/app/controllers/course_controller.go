package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/app/services"
	"github.com/yigit/campus/internal/middleware"
)

// CourseController handles courses, their enrollment and their materials
type CourseController struct {
	courseService   *services.CourseService
	materialService *services.MaterialService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService, materialService *services.MaterialService) *CourseController {
	return &CourseController{
		courseService:   courseService,
		materialService: materialService,
	}
}

// Create creates a course owned by the calling faculty member and enrolls its cohort
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Failure 400 {object} dto.ErrorResponse "Invalid data or duplicate course"
// @Failure 403 {object} dto.ErrorResponse "Faculty only"
// @Router /courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	course, err := c.courseService.Create(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, course)
}

// ListForStudent returns the courses the calling student is enrolled in
// @Summary My enrolled courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Failure 403 {object} dto.ErrorResponse "Students only"
// @Router /courses/student [get]
func (c *CourseController) ListForStudent(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	courses, err := c.courseService.ListForStudent(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, courses)
}

// ListForFaculty returns the courses created by the calling faculty member
// @Summary My courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Failure 403 {object} dto.ErrorResponse "Faculty only"
// @Router /courses/faculty [get]
func (c *CourseController) ListForFaculty(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	courses, err := c.courseService.ListForFaculty(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, courses)
}

// GetByID returns a course to its owner, its enrolled students or an admin
// @Summary Get course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 403 {object} dto.ErrorResponse "No access to this course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetByID(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetByID(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, course)
}

// Update edits a course. Changing department or year re-enrolls the cohort.
// @Summary Update course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 400 {object} dto.ErrorResponse "Invalid data or duplicate course"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	course, err := c.courseService.Update(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, course)
}

// Sync recomputes the enrolled cohort
// @Summary Resynchronize enrollment
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/sync [put]
func (c *CourseController) Sync(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.Sync(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, course)
}

// Delete removes a course with its materials, assignments and submissions
// @Summary Delete course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.Delete(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Course deleted")
}

// Students lists the enrolled students with basic profile fields
// @Summary Enrolled students
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentSummary}
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/students [get]
func (c *CourseController) Students(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	students, err := c.courseService.Students(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.StudentSummary, 0, len(students))
	for _, s := range students {
		items = append(items, dto.ToStudentSummary(s))
	}
	respondOK(ctx, items)
}

// CreateMaterial attaches a file upload or an external link to a course
// @Summary Add course material
// @Tags materials
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param fileUrl formData string false "External link, used when no file is uploaded"
// @Param file formData file false "Material file"
// @Success 201 {object} dto.APIResponse{data=models.CourseMaterial}
// @Failure 400 {object} dto.ErrorResponse "Neither file nor link provided"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/materials [post]
func (c *CourseController) CreateMaterial(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateMaterialRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}
	file, err := uploadedFile(ctx)
	if err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	material, err := c.materialService.Create(ctx.Request.Context(), p, courseID, &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, material)
}

// ListMaterials lists a course's materials
// @Summary Course materials
// @Tags materials
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.CourseMaterial}
// @Failure 403 {object} dto.ErrorResponse "No access to this course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/materials [get]
func (c *CourseController) ListMaterials(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	materials, err := c.materialService.ListByCourse(ctx.Request.Context(), p, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, materials)
}
