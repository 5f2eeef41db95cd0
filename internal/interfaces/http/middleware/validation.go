package middleware

import (
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/commerceos/backend/internal/interfaces/http/dto"
)

// Indian postal codes are 6 digits and never start with 0.
var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// SetupValidator registers custom validation rules and configures the
// validator to report json field names instead of struct field names.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine type %T", binding.Validator.Engine())
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodePattern.MatchString(fl.Field().String())
	})
}

// FormatValidationErrors converts validator errors into field-level details
func FormatValidationErrors(err error) []dto.ValidationDetail {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	details := make([]dto.ValidationDetail, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		details = append(details, dto.ValidationDetail{
			Field:   fieldError.Field(),
			Message: getValidationMessage(fieldError),
		})
	}
	return details
}

// HandleValidationError writes a 400 response describing the failed fields.
// Non-validator errors (malformed JSON, type mismatches) get a generic message.
func HandleValidationError(c *gin.Context, err error) {
	requestID := c.GetString("request_id")
	details := FormatValidationErrors(err)
	message := "request validation failed"
	if details == nil {
		message = "invalid request body"
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(message, requestID, details))
}

func getValidationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "pincode":
		return "must be a valid 6-digit pincode"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s items or characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s items or characters", fe.Param())
	default:
		return fmt.Sprintf("failed validation rule %q", fe.Tag())
	}
}
