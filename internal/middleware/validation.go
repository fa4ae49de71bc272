package middleware

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/campus/internal/pkg/validation"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the custom tags on gin's binding validator.
// It is safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		registerErr = validation.RegisterCustomValidations(v)
	})
	return registerErr
}
