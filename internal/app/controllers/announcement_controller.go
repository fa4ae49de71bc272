package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/app/services"
	"github.com/yigit/campus/internal/middleware"
)

// AnnouncementController handles announcement endpoints
type AnnouncementController struct {
	announcementService *services.AnnouncementService
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcementService *services.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{announcementService: announcementService}
}

// Create publishes an announcement
// @Summary Create announcement
// @Description Faculty and admins publish announcements. Omitted tags target everyone.
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} dto.APIResponse{data=models.Announcement}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Students cannot publish"
// @Router /announcements [post]
func (c *AnnouncementController) Create(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, err)
		return
	}

	announcement, err := c.announcementService.Create(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, announcement)
}

// Feed returns the announcements visible to the caller, newest first
// @Summary Announcement feed
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Announcement}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /announcements/feed [get]
func (c *AnnouncementController) Feed(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	announcements, err := c.announcementService.Feed(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, announcements)
}

// ListAll returns every announcement regardless of audience
// @Summary List all announcements
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Announcement}
// @Failure 403 {object} dto.ErrorResponse "Admins only"
// @Router /announcements [get]
func (c *AnnouncementController) ListAll(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	announcements, err := c.announcementService.ListAll(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, announcements)
}

// GetByID returns one announcement if the caller is in its audience
// @Summary Get announcement
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.APIResponse{data=models.Announcement}
// @Failure 403 {object} dto.ErrorResponse "Not in the audience"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /announcements/{id} [get]
func (c *AnnouncementController) GetByID(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	announcement, err := c.announcementService.GetByID(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, announcement)
}

// Delete removes an announcement
// @Summary Delete announcement
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Admins only"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /announcements/{id} [delete]
func (c *AnnouncementController) Delete(ctx *gin.Context) {
	p, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.announcementService.Delete(ctx.Request.Context(), p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Announcement deleted")
}
