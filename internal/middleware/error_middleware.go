package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/degreeaudit/internal/app/models/dto"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
	"github.com/yigit/degreeaudit/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	c.JSON(status, dto.NewFailureResponse(detail))
}

func errorResponse(err error) (int, *dto.ErrorDetail) {
	var custom *apperrors.CustomError
	errors.As(err, &custom)

	switch {
	case errors.Is(err, apperrors.ErrMalformedSpec):
		detail := dto.NewErrorDetail(dto.ErrorCodeMalformedSpec, "Malformed requirement")
		if custom != nil {
			detail = detail.WithField(custom.Detail("path")).WithDetails(custom.Message)
		}
		return http.StatusUnprocessableEntity, detail
	case errors.Is(err, apperrors.ErrMissingField):
		detail := dto.NewErrorDetail(dto.ErrorCodeMissingField, "Missing required field")
		if custom != nil {
			detail = detail.WithField(custom.Detail("field"))
		}
		return http.StatusBadRequest, detail
	case errors.Is(err, apperrors.ErrAreaNotFound):
		return http.StatusNotFound, withMessage(dto.NewErrorDetail(dto.ErrorCodeAreaNotFound, "Area not found"), custom)
	case errors.Is(err, apperrors.ErrStudentNotFound):
		return http.StatusNotFound, withMessage(dto.NewErrorDetail(dto.ErrorCodeStudentNotFound, "Student not found"), custom)
	case errors.Is(err, apperrors.ErrAuditNotFound):
		return http.StatusNotFound, withMessage(dto.NewErrorDetail(dto.ErrorCodeAuditNotFound, "Audit not found"), custom)
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, withMessage(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed"), custom)
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, withMessage(dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Bad request"), custom)
	case errors.Is(err, apperrors.ErrAcquisitionFailed):
		return http.StatusBadGateway, dto.NewErrorDetail(dto.ErrorCodeAcquisitionError, "Student data unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, dto.NewErrorDetail(dto.ErrorCodeTimeout, "Audit timed out")
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func withMessage(detail *dto.ErrorDetail, custom *apperrors.CustomError) *dto.ErrorDetail {
	if custom != nil && custom.Message != "" {
		return detail.WithDetails(custom.Message)
	}
	return detail
}
