package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campus/internal/pkg/apperrors"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"short1", false},
		{"longenoughbutnodigit", false},
		{"1234567890", false},
		{"campus2025", true},
	}
	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if tt.ok {
			assert.NoError(t, err, tt.password)
		} else {
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed, tt.password)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail(NormalizeEmail("  Asha.K@College.EDU ")))
	assert.ErrorIs(t, ValidateEmail(""), apperrors.ErrInvalidEmail)
	assert.ErrorIs(t, ValidateEmail("not-an-email"), apperrors.ErrInvalidEmail)
}

func TestNotBlankAndJSONNames(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))

	type req struct {
		Title string  `json:"title" validate:"required,notblank"`
		Note  *string `json:"note" validate:"omitempty,notblank"`
	}

	err := v.Struct(req{Title: "   "})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "title", verrs[0].Field())
	assert.Equal(t, "notblank", verrs[0].Tag())

	assert.NoError(t, v.Struct(req{Title: "Exam schedule"}))
}
