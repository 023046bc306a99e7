package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AppError is an operation-level failure carrying the HTTP status it should
// surface with. Handlers return these directly; HTTPErrorHandler renders them
// into the uniform response envelope.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// New creates a new AppError.
func New(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

// Sentinel errors shared between services, middleware and handlers.
var (
	ErrAllFieldsRequired = New(http.StatusBadRequest, "All fields are required")

	ErrEmailExists          = New(http.StatusBadRequest, "Email already exists")
	ErrUserNotFound         = New(http.StatusBadRequest, "User not found")
	ErrPasswordIncorrect    = New(http.StatusBadRequest, "Password is incorrect")
	ErrEmailNotRegistered   = New(http.StatusBadRequest, "Email not registered")
	ErrResetTokenInvalid    = New(http.StatusBadRequest, "Token is invalid or expired, please try again")
	ErrOldPasswordIncorrect = New(http.StatusBadRequest, "Old password is incorrect")

	ErrUnauthenticated = New(http.StatusBadRequest, "Unauthenticated, please log in again")
	ErrTokenInvalid    = New(http.StatusUnauthorized, "Invalid or expired token, please log in again")
	ErrForbiddenRole   = New(http.StatusForbidden, "You do not have permission to access this route")
	ErrSubscribeToView = New(http.StatusForbidden, "Please subscribe to view the lecture details")

	ErrCourseNotFound  = New(http.StatusBadRequest, "Course with the given ID does not exist")
	ErrLectureNotFound = New(http.StatusBadRequest, "Lecture with the given ID does not exist")
	ErrFileUpload      = New(http.StatusBadRequest, "File not uploaded, please try again")

	ErrAdminSubscription  = New(http.StatusBadRequest, "Admin cannot purchase a subscription")
	ErrPaymentNotVerified = New(http.StatusBadRequest, "Payment not verified, please try again")

	ErrEmailDelivery = New(http.StatusInternalServerError, "Email could not be sent, please try again later")
)

// Response is the uniform JSON envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HTTPErrorHandler converts any error escaping a handler into the envelope.
// Wire it as echo's HTTPErrorHandler.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal Server Error"

	var appErr *AppError
	var httpErr *echo.HTTPError
	switch {
	case stderrors.As(err, &appErr):
		status = appErr.Status
		message = appErr.Message
	case stderrors.As(err, &httpErr):
		status = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	}

	if err := c.JSON(status, Response{Success: false, Message: message}); err != nil {
		c.Logger().Error(err)
	}
}
