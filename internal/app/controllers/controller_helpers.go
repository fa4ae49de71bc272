// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/app/services"
)

// parseIDParam reads a positive int64 path parameter and writes a 400 when it is not one.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).
			WithField(name).
			WithDetails(name + " must be a positive integer")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

func respondOK(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func respondPage(ctx *gin.Context, data interface{}, page dto.PaginationInfo) {
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(data, page))
}

func respondCreated(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

func respondMessage(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: message}))
}

// uploadedFile returns the optional "file" part of a multipart request.
func uploadedFile(ctx *gin.Context) (*multipart.FileHeader, error) {
	if ctx.ContentType() != binding.MIMEMultipartPOSTForm {
		return nil, nil
	}
	file, err := ctx.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	return file, err
}

// serveFile streams a stored file or redirects to an external link.
func serveFile(ctx *gin.Context, loc *services.FileLocation) {
	if loc.Path != "" {
		ctx.File(loc.Path)
		return
	}
	ctx.Redirect(http.StatusFound, loc.URL)
}
