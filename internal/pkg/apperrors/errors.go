package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrAreaNotFound     = errors.New("area not found")
	ErrStudentNotFound  = errors.New("student not found")
	ErrAuditNotFound    = errors.New("audit not found")

	// Requirement errors
	ErrMalformedSpec = errors.New("malformed requirement spec")
	ErrMissingField  = errors.New("missing required field")

	// Student data acquisition errors
	ErrAcquisitionFailed = errors.New("student data acquisition failed")

	// Authentication errors
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewMalformedSpecError reports a requirement description that cannot be resolved into a
// canonical node. path locates the offending node inside the area.
func NewMalformedSpecError(path, message string) *CustomError {
	return NewCustomError(ErrMalformedSpec, message).
		WithCode("MALFORMED_SPEC").
		WithDetails(map[string]interface{}{"path": path})
}

// NewMissingFieldError reports an operation invoked without a field its contract requires.
func NewMissingFieldError(field string) *CustomError {
	return NewCustomError(ErrMissingField, "missing required field: "+field).
		WithCode("MISSING_FIELD").
		WithDetails(map[string]interface{}{"field": field})
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		if e.Err != nil {
			return e.Err.Error() + ": " + e.Message
		}
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithStatusMsg adds a user-friendly status message
func (e *CustomError) WithStatusMsg(msg string) *CustomError {
	e.StatusMsg = msg
	return e
}

// Detail returns a single detail value, or "" when absent.
func (e *CustomError) Detail(key string) string {
	if e.Details == nil {
		return ""
	}
	if v, ok := e.Details[key].(string); ok {
		return v
	}
	return ""
}
