package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/app/services"
	"github.com/yigit/campus/internal/middleware"
	"github.com/yigit/campus/internal/pkg/helpers"
)

// PlacementController handles placement records
type PlacementController struct {
	placementService *services.PlacementService
}

// NewPlacementController creates a new PlacementController
func NewPlacementController(placementService *services.PlacementService) *PlacementController {
	return &PlacementController{placementService: placementService}
}

// Create records a placement offer for a student
// @Summary Create placement record
// @Description The name, email, department and batch year must match the student's profile.
// @Tags placements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePlacementRequest true "Placement"
// @Success 201 {object} dto.APIResponse{data=models.Placement}
// @Failure 400 {object} dto.ErrorResponse "Invalid data or profile mismatch"
// @Failure 403 {object} dto.ErrorResponse "Admins only"
// @Router /placements [post]
func (c *PlacementController) Create(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreatePlacementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	placement, err := c.placementService.Create(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, placement)
}

// List lists placement records with filters
// @Summary List placements
// @Tags placements
// @Produce json
// @Security BearerAuth
// @Param department query string false "Department"
// @Param batchYear query int false "Batch year"
// @Param company query string false "Company"
// @Param type query string false "fulltime or internship"
// @Param studentId query string false "Student roll number"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=[]models.Placement}
// @Failure 403 {object} dto.ErrorResponse "Admins only"
// @Router /placements [get]
func (c *PlacementController) List(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	var filter dto.PlacementFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}
	filter.Page, filter.Size = helpers.ParsePaginationParams(ctx)

	placements, page, err := c.placementService.List(ctx.Request.Context(), p, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, placements, page)
}

// ListMine lists the calling student's own placement records
// @Summary My placements
// @Tags placements
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=[]models.Placement}
// @Failure 403 {object} dto.ErrorResponse "Students only"
// @Router /placements/student [get]
func (c *PlacementController) ListMine(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	pageNum, size := helpers.ParsePaginationParams(ctx)

	placements, page, err := c.placementService.ListMine(ctx.Request.Context(), p, pageNum, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, placements, page)
}

// Summary returns each student's best offer
// @Summary Placement summary
// @Tags placements
// @Produce json
// @Security BearerAuth
// @Param department query string false "Department"
// @Param batchYear query int false "Batch year"
// @Success 200 {object} dto.APIResponse{data=[]dto.PlacementSummary}
// @Failure 403 {object} dto.ErrorResponse "Admins only"
// @Router /placements/summary [get]
func (c *PlacementController) Summary(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	var filter dto.PlacementFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	summary, err := c.placementService.Summary(ctx.Request.Context(), p, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, summary)
}

// GetByID returns a placement record to an admin or the student it belongs to
// @Summary Get placement
// @Tags placements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Placement ID"
// @Success 200 {object} dto.APIResponse{data=models.Placement}
// @Failure 403 {object} dto.ErrorResponse "Not your placement record"
// @Failure 404 {object} dto.ErrorResponse "Placement not found"
// @Router /placements/{id} [get]
func (c *PlacementController) GetByID(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	placement, err := c.placementService.GetByID(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, placement)
}

// Update edits the offer fields of a placement record
// @Summary Update placement
// @Tags placements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Placement ID"
// @Param request body dto.UpdatePlacementRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Placement}
// @Failure 403 {object} dto.ErrorResponse "Admins only"
// @Failure 404 {object} dto.ErrorResponse "Placement not found"
// @Router /placements/{id} [put]
func (c *PlacementController) Update(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdatePlacementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	placement, err := c.placementService.Update(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, placement)
}

// Delete removes a placement record
// @Summary Delete placement
// @Tags placements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Placement ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Admins only"
// @Failure 404 {object} dto.ErrorResponse "Placement not found"
// @Router /placements/{id} [delete]
func (c *PlacementController) Delete(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.placementService.Delete(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Placement deleted")
}
