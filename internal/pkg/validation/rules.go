package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/campus/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	EmailPattern      = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`
	PasswordMinLength = 8
)

var emailRegexp = regexp.MustCompile(EmailPattern)

// NormalizeEmail lower-cases and trims an email address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks a normalized email address.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email cannot be empty", apperrors.ErrInvalidEmail)
	}
	if !emailRegexp.MatchString(email) {
		return apperrors.ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the minimum length and letter+digit composition.
func ValidatePassword(password string) error {
	if len(password) < PasswordMinLength {
		return fmt.Errorf("%w: password must be at least %d characters long", apperrors.ErrInvalidPassword, PasswordMinLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		return fmt.Errorf("%w: password must contain at least one letter", apperrors.ErrInvalidPassword)
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must contain at least one digit", apperrors.ErrInvalidPassword)
	}
	return nil
}

// RegisterCustomValidations adds the project specific tags to a validator instance.
// The gin binding engine is registered at start-up; tests register their own instance.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		return err
	}
	v.RegisterTagNameFunc(jsonFieldName)
	return nil
}

// notBlank fails for strings made only of whitespace.
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// jsonFieldName reports validation errors under the JSON name clients send.
func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}
