package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campus/internal/app/auth"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/pkg/apperrors"
	jwtauth "github.com/yigit/campus/internal/pkg/auth"
	"github.com/yigit/campus/internal/pkg/logger"
)

const principalContextKey = "principal"

// AccountLookup loads the current state of the account behind a token.
type AccountLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *jwtauth.JWTService
	accounts   AccountLookup
}

// NewAuthMiddleware creates a new AuthMiddleware. Tokens of deleted or
// deactivated accounts are rejected even before they expire.
func NewAuthMiddleware(jwtService *jwtauth.JWTService, accounts AccountLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		accounts:   accounts,
	}
}

// JWTAuth validates the bearer token and attaches the resulting principal to the request.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := jwtauth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed")
			errorDetail = errorDetail.WithDetails("Invalid token format")

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
			errorDetail = errorDetail.WithDetails(errorDetails)

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		principal, err := auth.PrincipalFromClaims(claims)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed")
			errorDetail = errorDetail.WithDetails("Token does not describe a valid user")

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		account, err := m.accounts.GetByID(c.Request.Context(), principal.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication failed")
				errorDetail = errorDetail.WithDetails("Account no longer exists")

				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
				return
			}
			HandleAPIError(c, err)
			return
		}
		if !account.IsActive() {
			HandleAPIError(c, apperrors.ErrAccountDisabled)
			return
		}

		c.Set(principalContextKey, principal)

		ctx := auth.ContextWithPrincipal(c.Request.Context(), principal)
		l := logger.FromContext(ctx).With().
			Int64("userId", principal.ID).
			Str("role", string(principal.Role)).
			Logger()
		c.Request = c.Request.WithContext(logger.WithContext(ctx, l))

		c.Next()
	}
}

// RoleRequired rejects principals that hold none of roles. It must run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("User role not found")

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if !principal.HasRole(roles...) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
			errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")

			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// GetPrincipal returns the principal stored by JWTAuth.
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, exists := c.Get(principalContextKey)
	if !exists {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// MustPrincipal returns the principal or writes a 401 and reports false.
func MustPrincipal(c *gin.Context) (auth.Principal, bool) {
	p, ok := GetPrincipal(c)
	if !ok {
		HandleAPIError(c, apperrors.ErrUnauthenticated)
		return auth.Principal{}, false
	}
	return p, true
}
