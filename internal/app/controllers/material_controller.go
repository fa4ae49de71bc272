package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/app/services"
	"github.com/yigit/campus/internal/middleware"
)

// MaterialController handles edits to existing course materials
type MaterialController struct {
	materialService *services.MaterialService
}

// NewMaterialController creates a new MaterialController
func NewMaterialController(materialService *services.MaterialService) *MaterialController {
	return &MaterialController{materialService: materialService}
}

// File downloads a course material for readers of its course
// @Summary Download course material
// @Tags materials
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Success 200 {file} file
// @Success 302 "Redirect to an external link"
// @Failure 403 {object} dto.ErrorResponse "No access to the course"
// @Failure 404 {object} dto.ErrorResponse "Material not found"
// @Router /materials/{id}/file [get]
func (c *MaterialController) File(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	loc, err := c.materialService.File(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	serveFile(ctx, loc)
}

// Update edits a material
// @Summary Update course material
// @Tags materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Param request body dto.UpdateMaterialRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.CourseMaterial}
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Material not found"
// @Router /materials/{id} [put]
func (c *MaterialController) Update(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateMaterialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	material, err := c.materialService.Update(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, material)
}

// Delete removes a material and its stored file
// @Summary Delete course material
// @Tags materials
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Material not found"
// @Router /materials/{id} [delete]
func (c *MaterialController) Delete(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.materialService.Delete(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Material deleted")
}
