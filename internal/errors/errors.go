package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrForbidden is returned when the actor's role does not permit the action.
	ErrForbidden = errors.New("forbidden")
	// ErrProjectNotFound is returned when a project is not found.
	ErrProjectNotFound = errors.New("project not found")
	// ErrIssueNotFound is returned when an issue is not found.
	ErrIssueNotFound = errors.New("issue not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmptyTitle is returned when an issue title is missing or blank.
	ErrEmptyTitle = errors.New("title must not be empty")
	// ErrEmptyName is returned when a project name is missing or blank.
	ErrEmptyName = errors.New("name must not be empty")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrProjectNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROJECT_NOT_FOUND")
	case errors.Is(err, ErrIssueNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ISSUE_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrEmptyTitle):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "EMPTY_TITLE")
	case errors.Is(err, ErrEmptyName):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "EMPTY_NAME")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
