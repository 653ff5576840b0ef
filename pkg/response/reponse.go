package response

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "snaptext/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// MessageResponse is the body of every non-payload reply: plain status
// messages and all errors.
type MessageResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func Message(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: message})
}

func Error(c echo.Context, err error) error {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return handleValidationError(c, validationErr)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body := MessageResponse{
			Message: appErr.Message,
			Code:    appErr.Code,
		}
		// Server-side failures echo the underlying cause so the client can surface it.
		if appErr.Status >= http.StatusInternalServerError && appErr.Err != nil {
			body.Error = appErr.Err.Error()
		}
		return c.JSON(appErr.Status, body)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return c.JSON(httpErr.Code, MessageResponse{Message: fmt.Sprint(httpErr.Message)})
	}

	return c.JSON(http.StatusInternalServerError, MessageResponse{
		Message: "Internal server error.",
		Code:    apperrors.CodeInternal,
		Error:   err.Error(),
	})
}

func handleValidationError(c echo.Context, validationErr validator.ValidationErrors) error {
	message := "Invalid input data"
	if len(validationErr) > 0 {
		fe := validationErr[0]
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			message = field + " is required"
		case "min":
			message = field + " must be at least " + fe.Param()
		case "max":
			message = field + " must be at most " + fe.Param()
		case "url":
			message = field + " must be a valid URL"
		default:
			message = field + " is invalid"
		}
	}

	return c.JSON(http.StatusBadRequest, MessageResponse{
		Message: message,
		Code:    "VALIDATION_ERROR",
	})
}
