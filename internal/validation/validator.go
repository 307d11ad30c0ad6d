package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"grocerylist-api/internal/models"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// singleton instance of the validator
var instance *Validator

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("category_id", validateCategoryID)
	_ = v.RegisterValidation("keyword", validateKeyword)
	_ = v.RegisterValidation("display_name", validateDisplayName)
	_ = v.RegisterValidation("positive_quantity", validatePositiveQuantity)
	_ = v.RegisterValidation("user_id", validateUserID)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Custom validation functions

// validateCategoryID validates that a category is one of the known categories
func validateCategoryID(fl validator.FieldLevel) bool {
	category := fl.Field().String()
	if category == "" {
		return false
	}
	return models.IsValidCategory(models.Category(category))
}

// validateKeyword validates that a keyword is long enough to be worth matching on.
// Very short keywords generate too many false substring hits.
func validateKeyword(fl validator.FieldLevel) bool {
	keyword := strings.TrimSpace(fl.Field().String())
	return len(keyword) >= models.MinKeywordLength
}

// validateDisplayName validates that a display name is non-blank and reasonably sized
func validateDisplayName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	return len(name) > 0 && len(name) <= 100
}

// validatePositiveQuantity validates that a quantity is greater than 0
func validatePositiveQuantity(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fl.Field().Int() > 0
	case reflect.Float32, reflect.Float64:
		return fl.Field().Float() > 0
	default:
		return false
	}
}

// validateUserID validates that a user ID is a valid UUID
func validateUserID(fl validator.FieldLevel) bool {
	userID := fl.Field().String()
	if userID == "" {
		return false
	}

	// UUID v4 format validation
	matched, _ := regexp.MatchString(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, userID)
	return matched
}
