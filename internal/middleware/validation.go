package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/degreeaudit/internal/app/models/dto"
)

const validatedBodyKey = "validatedBody"

var revisionPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// RegisterValidators adds the custom binding rules to gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("revision", func(fl validator.FieldLevel) bool {
		return revisionPattern.MatchString(fl.Field().String())
	})
}

// ValidateRequest binds and validates the JSON body into a fresh T for every request
func ValidateRequest[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		body := new(T)
		if err := c.ShouldBindJSON(body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}

		c.Set(validatedBodyKey, body)
		c.Next()
	}
}

// ValidatedBody returns the body bound by ValidateRequest
func ValidatedBody[T any](c *gin.Context) (*T, bool) {
	v, exists := c.Get(validatedBodyKey)
	if !exists {
		return nil, false
	}
	body, ok := v.(*T)
	return body, ok
}
