package dto

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks req against its validate tags and returns a validation
// error listing one message per failing field.
func Validate(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperr.Wrap(apperr.KindValidation, err, "Invalid request body")
	}

	messages := make([]string, 0, len(ve))
	for _, fe := range ve {
		messages = append(messages, fieldMessage(fe))
	}
	return apperr.Validation(messages...)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	if field == "rating" && fe.Kind() == reflect.Int && (fe.Tag() == "min" || fe.Tag() == "max") {
		return "Enter a valid rating from 1 to 5"
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Enter a valid email"
	case "phone":
		return "Enter a valid phone number"
	case "role":
		return "Enter a valid role"
	case "category":
		return "Enter a valid category"
	case "uuid":
		return fmt.Sprintf("Invalid %s ID", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not be more than %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not be more than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must not be more than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
