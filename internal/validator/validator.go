package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/study-assistant/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct tag validation with request rules that tags cannot express
type Validator struct {
	structValidator  *validator.Validate
	requestValidator *RequestValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:  structValidator,
		requestValidator: NewRequestValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Request returns the request rule validator
func (v *Validator) Request() *RequestValidator {
	return v.requestValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("session_view", validateSessionView)
	validate.RegisterValidation("not_blank", validateNotBlank)

	// Report json field names in errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateSessionView(fl validator.FieldLevel) bool {
	switch models.SessionView(fl.Field().String()) {
	case models.ViewSummary, models.ViewChallenge:
		return true
	}
	return false
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
