package middleware

import (
	"errors"
	"net/http"

	"github.com/edulab/lms-backend/internal/app/models/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON binds and validates a JSON request body. On failure it writes the
// validation error response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			details := dto.NewValidationErrors()
			for _, fieldErr := range validationErrs {
				details.AddError(fieldErr.Field(), formatValidationError(fieldErr))
			}
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
				WithDetails(details.Errors)
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			c.Abort()
			return false
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		c.Abort()
		return false
	}
	return true
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "uuid4":
		return e.Field() + " must be a valid UUID"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
