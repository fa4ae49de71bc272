package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/app/models/dto"
	"github.com/yigit/campus/internal/pkg/apperrors"
	jwtauth "github.com/yigit/campus/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func newJWT(now time.Time) *jwtauth.JWTService {
	return jwtauth.NewJWTService(jwtauth.JWTConfig{SecretKey: "middleware-secret", AccessTokenExp: time.Hour, TokenIssuer: "campus.test"}).
		WithClock(func() time.Time { return now })
}

type fakeAccounts map[int64]*models.User

func (f fakeAccounts) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func activeAccounts(ids ...int64) fakeAccounts {
	accounts := fakeAccounts{}
	for _, id := range ids {
		accounts[id] = &models.User{ID: id, Status: models.StatusActive}
	}
	return accounts
}

func authRouter(jwt *jwtauth.JWTService, accounts AccountLookup, roles ...models.RoleType) *gin.Engine {
	m := NewAuthMiddleware(jwt, accounts)
	r := gin.New()
	handlers := []gin.HandlerFunc{m.JWTAuth()}
	if len(roles) > 0 {
		handlers = append(handlers, m.RoleRequired(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, "%d:%s", p.ID, p.Role)
	})
	r.GET("/me", handlers...)
	return r
}

func TestJWTAuth(t *testing.T) {
	now := time.Now()
	jwt := newJWT(now)
	dept := "CSE"
	year := 2024
	token, _, err := jwt.GenerateToken(&models.User{ID: 7, Email: "asha@college.edu", Role: models.RoleStudent, Department: &dept, AdmissionYear: &year})
	require.NoError(t, err)

	expired, _, err := newJWT(now.Add(-2*time.Hour)).GenerateToken(&models.User{ID: 7, Email: "asha@college.edu", Role: models.RoleStudent, Department: &dept, AdmissionYear: &year})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		code   dto.ErrorCode
	}{
		{"missing header", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"no bearer prefix", token, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"valid token", "Bearer " + token, http.StatusOK, ""},
	}

	r := authRouter(jwt, activeAccounts(7))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, w).Error.Code)
			} else {
				assert.Equal(t, "7:student", w.Body.String())
			}
		})
	}
}

func TestJWTAuthRejectsClosedAccounts(t *testing.T) {
	jwt := newJWT(time.Now())
	dept := "CSE"
	year := 2024
	token, _, err := jwt.GenerateToken(&models.User{ID: 7, Email: "asha@college.edu", Role: models.RoleStudent, Department: &dept, AdmissionYear: &year})
	require.NoError(t, err)

	tests := []struct {
		name     string
		accounts fakeAccounts
		status   int
		code     dto.ErrorCode
	}{
		{"deactivated", fakeAccounts{7: {ID: 7, Status: models.StatusInactive}}, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"deleted", fakeAccounts{}, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			authRouter(jwt, tt.accounts).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Error.Code)
		})
	}
}

func TestRoleRequired(t *testing.T) {
	jwt := newJWT(time.Now())
	dept := "CSE"
	token, _, err := jwt.GenerateToken(&models.User{ID: 10, Email: "rao@college.edu", Role: models.RoleFaculty, Department: &dept})
	require.NoError(t, err)

	for _, tc := range []struct {
		roles  []models.RoleType
		status int
	}{
		{[]models.RoleType{models.RoleAdmin}, http.StatusForbidden},
		{[]models.RoleType{models.RoleAdmin, models.RoleFaculty}, http.StatusOK},
	} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		authRouter(jwt, activeAccounts(10), tc.roles...).ServeHTTP(w, req)

		assert.Equal(t, tc.status, w.Code, "roles %v", tc.roles)
		if tc.status == http.StatusForbidden {
			assert.Equal(t, dto.ErrorCodeForbidden, decodeError(t, w).Error.Code)
		}
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"unauthenticated", apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"disabled", apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"forbidden", fmt.Errorf("%w: not your course", apperrors.ErrPermissionDenied), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"not found", apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"duplicate course", apperrors.ErrCourseAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists},
		{"duplicate submission", apperrors.ErrSubmissionExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"generic conflict", apperrors.NewConflictError("busy"), http.StatusConflict, dto.ErrorCodeConflict},
		{"validation", apperrors.NewValidationError("year", "year must be between 1 and 4"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleAPIErrorValidationField(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.NewValidationError("dueDate", "dueDate must be a date"))

	resp := decodeError(t, w)
	assert.Equal(t, "dueDate", resp.Error.Field)
	assert.Equal(t, "dueDate must be a date", resp.Error.Message)
}

func TestRegisterValidatorsBindsNotBlank(t *testing.T) {
	require.NoError(t, RegisterValidators())
	require.NoError(t, RegisterValidators())

	type body struct {
		Title string `json:"title" binding:"required,notblank"`
	}
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var b body
		if err := c.ShouldBindJSON(&b); err != nil {
			RespondBindingError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"   "}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, "title", resp.Error.Field)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Exam"}`)))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(60, 2)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per ip")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"), "one token refills per second")

	now = now.Add(10 * time.Minute)
	rl.Sweep()
	rl.mu.Lock()
	assert.Empty(t, rl.buckets)
	rl.mu.Unlock()
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, dto.ErrorCodeRateLimited, decodeError(t, w).Error.Code)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 26)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	assert.NotEqual(t, NewRequestID(), NewRequestID())
}
