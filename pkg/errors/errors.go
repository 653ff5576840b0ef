package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeUnauthenticated           = "UNAUTHENTICATED"
	CodeInvalidFolder             = "INVALID_FOLDER"
	CodeNoURLs                    = "NO_URLS"
	CodeNoFiles                   = "NO_FILES"
	CodeBadRequest                = "BAD_REQUEST"
	CodeNotFound                  = "NOT_FOUND"
	CodeTooManyRequests           = "TOO_MANY_REQUESTS"
	CodeUpstreamGenerationFailure = "UPSTREAM_GENERATION_FAILURE"
	CodeInternal                  = "INTERNAL_ERROR"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func Unauthenticated(message string, err error) *AppError {
	return New(CodeUnauthenticated, message, http.StatusUnauthorized, err)
}

// InvalidFolder is returned when a folder key is missing or lies outside the
// caller's users/<uid>/ namespace.
func InvalidFolder() *AppError {
	return New(CodeInvalidFolder, "Invalid folderName for this user.", http.StatusBadRequest, nil)
}

func NoURLs() *AppError {
	return New(CodeNoURLs, "No URLs provided.", http.StatusBadRequest, nil)
}

func NoFiles(err error) *AppError {
	return New(CodeNoFiles, "No files uploaded.", http.StatusBadRequest, err)
}

func BadRequest(message string, err error) *AppError {
	return New(CodeBadRequest, message, http.StatusBadRequest, err)
}

func NotFound(resource string, err error) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s does not exist.", resource), http.StatusNotFound, err)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequests, message, http.StatusTooManyRequests, nil)
}

// UpstreamGenerationFailure is reserved for a completion service that produced
// nothing usable. Submission processing currently degrades to an empty
// description instead of returning it.
func UpstreamGenerationFailure(err error) *AppError {
	return New(CodeUpstreamGenerationFailure, "Description generation failed.", http.StatusBadGateway, err)
}

func Internal(message string, err error) *AppError {
	return New(CodeInternal, message, http.StatusInternalServerError, err)
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
