package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campus/internal/app/services"
	"github.com/yigit/campus/internal/middleware"
)

// SubmissionController exposes submissions outside of an assignment's scope
type SubmissionController struct {
	submissionService *services.SubmissionService
}

// NewSubmissionController creates a new SubmissionController
func NewSubmissionController(submissionService *services.SubmissionService) *SubmissionController {
	return &SubmissionController{submissionService: submissionService}
}

// ListMine lists the calling student's submissions
// @Summary My submissions
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Submission}
// @Failure 403 {object} dto.ErrorResponse "Students only"
// @Router /submissions/me [get]
func (c *SubmissionController) ListMine(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	submissions, err := c.submissionService.ListMine(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, submissions)
}

// GetByID returns a submission to its author or the assignment's owner
// @Summary Get submission
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.APIResponse{data=models.Submission}
// @Failure 403 {object} dto.ErrorResponse "No access to this submission"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Router /submissions/{id} [get]
func (c *SubmissionController) GetByID(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	submission, err := c.submissionService.GetByID(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, submission)
}

// File downloads the uploaded work of a submission
// @Summary Download submission file
// @Tags submissions
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {file} file
// @Success 302 "Redirect to an external link"
// @Failure 403 {object} dto.ErrorResponse "No access to this submission"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Router /submissions/{id}/file [get]
func (c *SubmissionController) File(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	loc, err := c.submissionService.File(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	serveFile(ctx, loc)
}
