package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/pkg/apperrors"
	"github.com/yigit/campus/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorResponse(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// RespondBindingError writes the 400 for a request body or query that failed to bind.
func RespondBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

func errorResponse(err error) (int, *dto.ErrorDetail) {
	switch {
	// course duplicates are reported as a bad request
	case errors.Is(err, apperrors.ErrCourseAlreadyExists):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error())

	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())

	case apperrors.Is(err, apperrors.ErrEmailAlreadyExists, apperrors.ErrStudentIDExists, apperrors.ErrSubmissionExists, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, err.Error())

	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && len(custom.Details) > 0 {
			if field, ok := custom.Details["field"].(string); ok {
				detail = detail.WithField(field)
			}
			detail = detail.WithDetails(custom.Details)
		}
		return http.StatusBadRequest, detail

	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
