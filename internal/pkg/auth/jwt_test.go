package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/campus/internal/app/models"
	"github.com/yigit/campus/internal/pkg/apperrors"
)

func newTestService(now time.Time) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "campus-test",
	}).WithClock(func() time.Time { return now })
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestGenerateAndValidateToken(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(now)

	user := &models.User{
		ID:            42,
		Email:         "asha@college.edu",
		Role:          models.RoleStudent,
		Department:    strPtr("CSE"),
		AdmissionYear: intPtr(2023),
	}

	token, expiresIn, err := svc.GenerateToken(user)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	require.NotNil(t, claims.Department)
	assert.Equal(t, "CSE", *claims.Department)
	require.NotNil(t, claims.AdmissionYear)
	assert.Equal(t, 2023, *claims.AdmissionYear)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Expired(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	token, _, err := newTestService(issued).GenerateToken(&models.User{ID: 1, Email: "a@b.edu", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = newTestService(issued.Add(2 * time.Hour)).ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	now := time.Now()
	token, _, err := newTestService(now).GenerateToken(&models.User{ID: 1, Email: "a@b.edu", Role: models.RoleAdmin})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "campus-test"})
	_, err = other.ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{UserID: 1, Email: "a@b.edu", Role: models.RoleAdmin}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestService(time.Now()).ValidateAndExtractClaims(signed)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestValidateAndExtractClaims_UnknownRole(t *testing.T) {
	now := time.Now()
	token, _, err := newTestService(now).GenerateToken(&models.User{ID: 3, Email: "x@y.edu", Role: "janitor"})
	require.NoError(t, err)

	_, err = newTestService(now).ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer", header: "Bearer abc.def", want: "abc.def"},
		{name: "padded", header: "  Bearer  abc  ", want: "abc"},
		{name: "empty", header: "", wantErr: true},
		{name: "no scheme", header: "abc.def", wantErr: true},
		{name: "scheme only", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	BcryptCost = bcrypt.MinCost

	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", hash)
	assert.True(t, CheckPassword(hash, "s3cretpass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
