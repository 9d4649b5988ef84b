package validation

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Get returns the shared validator with the custom tags registered
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("grade", validateGrade)
		_ = validate.RegisterValidation("user_role", validateUserRole)
		_ = validate.RegisterValidation("partner_code", validatePartnerCode)
	})
	return validate
}

// ValidateStruct validates a struct and converts validator errors into a ValidationError
func ValidateStruct(s interface{}) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationError(verrs)
	}
	return err
}

func validateGrade(fl validator.FieldLevel) bool {
	v := strings.TrimSpace(fl.Field().String())
	return strings.EqualFold(v, "Pass") || strings.EqualFold(v, "Pending")
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "user", "admin", "super_admin":
		return true
	}
	return false
}

// partner codes are free-form tags but must not be blank or contain slashes,
// which Firestore would read as a path separator in document ids
func validatePartnerCode(fl validator.FieldLevel) bool {
	v := strings.TrimSpace(fl.Field().String())
	return v != "" && !strings.Contains(v, "/")
}
