package controllers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/app/services"
	"github.com/yigit/campus/internal/middleware"
)

// AssignmentController handles assignments and submissions made against them
type AssignmentController struct {
	assignmentService *services.AssignmentService
	submissionService *services.SubmissionService
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(assignmentService *services.AssignmentService, submissionService *services.SubmissionService) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
		submissionService: submissionService,
	}
}

// Create adds an assignment to one of the caller's courses
// @Summary Create assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAssignmentRequest true "Assignment"
// @Success 201 {object} dto.APIResponse{data=models.Assignment}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /assignments [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	assignment, err := c.assignmentService.Create(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, assignment)
}

// ListForStudent lists assignments across the calling student's courses
// @Summary My assignments
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Assignment}
// @Failure 403 {object} dto.ErrorResponse "Students only"
// @Router /assignments/student [get]
func (c *AssignmentController) ListForStudent(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	assignments, err := c.assignmentService.ListForStudent(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, assignments)
}

// ListByCourse lists a course's assignments
// @Summary Course assignments
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Assignment}
// @Failure 403 {object} dto.ErrorResponse "No access to this course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /assignments/course/{id} [get]
func (c *AssignmentController) ListByCourse(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	assignments, err := c.assignmentService.ListByCourse(ctx.Request.Context(), p, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, assignments)
}

// GetByID returns an assignment
// @Summary Get assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=models.Assignment}
// @Failure 403 {object} dto.ErrorResponse "No access to this course"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /assignments/{id} [get]
func (c *AssignmentController) GetByID(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	assignment, err := c.assignmentService.GetByID(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, assignment)
}

// Update edits an assignment
// @Summary Update assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param request body dto.UpdateAssignmentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Assignment}
// @Failure 403 {object} dto.ErrorResponse "Not the assignment owner"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /assignments/{id} [put]
func (c *AssignmentController) Update(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	assignment, err := c.assignmentService.Update(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, assignment)
}

// Delete removes an assignment and its submissions
// @Summary Delete assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the assignment owner"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /assignments/{id} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.assignmentService.Delete(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Assignment deleted")
}

// Status reports the caller's submission state, or submission counts for the owner
// @Summary Assignment status
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentStatusResponse}
// @Failure 403 {object} dto.ErrorResponse "No access to this assignment"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /assignments/{id}/status [get]
func (c *AssignmentController) Status(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	status, err := c.assignmentService.Status(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, status)
}

// Submit records the calling student's one submission for an assignment
// @Summary Submit assignment
// @Tags submissions
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param fileUrl formData string false "External link, used when no file is uploaded"
// @Param file formData file false "Submission file"
// @Success 201 {object} dto.APIResponse{data=models.Submission}
// @Failure 400 {object} dto.ErrorResponse "Neither file nor link provided"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled in the course"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 409 {object} dto.ErrorResponse "Already submitted"
// @Router /assignments/{id}/submissions [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateSubmissionRequest
	if err := ctx.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.RespondBindingError(ctx, err)
		return
	}
	file, err := uploadedFile(ctx)
	if err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	submission, err := c.submissionService.Create(ctx.Request.Context(), p, id, &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, submission)
}

// Submissions lists the submissions for an assignment visible to the caller
// @Summary Assignment submissions
// @Description The owner sees every submission, an enrolled student only their own.
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Submission}
// @Failure 403 {object} dto.ErrorResponse "No access to this assignment"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /assignments/{id}/submissions [get]
func (c *AssignmentController) Submissions(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	submissions, err := c.submissionService.ListForAssignment(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, submissions)
}
