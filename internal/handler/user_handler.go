package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lms/internal/auth"
	apperr "lms/internal/errors"
	"lms/internal/middleware"
	"lms/internal/service"
)

// UserHandler handles account and credential endpoints.
type UserHandler struct {
	users     service.UserService
	tokens    *auth.TokenService
	uploadDir string
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users service.UserService, tokens *auth.TokenService, uploadDir string) *UserHandler {
	return &UserHandler{
		users:     users,
		tokens:    tokens,
		uploadDir: uploadDir,
	}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	FullName string `json:"fullName" form:"fullName" validate:"required,min=5,max=30"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ForgotPasswordRequest asks for a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// ResetPasswordRequest redeems a reset token.
type ResetPasswordRequest struct {
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

// ChangePasswordRequest replaces a known password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" form:"newPassword" validate:"required,min=8"`
}

// UpdateProfileRequest updates profile fields.
type UpdateProfileRequest struct {
	FullName string `json:"fullName" form:"fullName" validate:"omitempty,min=5,max=30"`
}

// Register godoc
// @Summary Register a new user
// @Tags user
// @Accept mpfd
// @Produce json
// @Param fullName formData string true "Full name"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param avatar formData file false "Avatar image"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.Response
// @Failure 500 {object} errors.Response
// @Router /user/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}
	if err := c.Validate(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}

	avatarPath, err := saveUpload(c, "avatar", h.uploadDir)
	if err != nil {
		return apperr.ErrFileUpload
	}
	defer removeUpload(avatarPath)

	user, token, err := h.users.Register(c.Request().Context(), req.FullName, req.Email, req.Password, avatarPath)
	if err != nil {
		return err
	}

	setTokenCookie(c, token, h.tokens.TTL())

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login godoc
// @Summary Log in with email and password
// @Tags user
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.Response
// @Router /user/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}
	if err := c.Validate(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}

	_, token, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	setTokenCookie(c, token, h.tokens.TTL())

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
	})
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags user
// @Produce json
// @Success 200 {object} errors.Response
// @Router /user/logout [get]
func (h *UserHandler) Logout(c echo.Context) error {
	clearTokenCookie(c)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User logged out successfully",
	})
}

// Profile godoc
// @Summary Profile of the authenticated user
// @Tags user
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /user/me [get]
func (h *UserHandler) Profile(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}

	user, err := h.users.Profile(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User details",
		"user":    user,
	})
}

// ForgotPassword godoc
// @Summary Send a password-reset link
// @Tags user
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.Response
// @Failure 500 {object} errors.Response
// @Router /user/forgot-password [post]
func (h *UserHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}
	if err := c.Validate(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}

	if err := h.users.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Reset link sent to " + req.Email,
	})
}

// ResetPassword godoc
// @Summary Redeem a reset token and set a new password
// @Tags user
// @Accept json
// @Produce json
// @Param resetToken path string true "Reset token from the email link"
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.Response
// @Router /user/reset/{resetToken} [post]
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}
	if err := c.Validate(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}

	if err := h.users.ResetPassword(c.Request().Context(), c.Param("resetToken"), req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Password reset successfully",
	})
}

// ChangePassword godoc
// @Summary Change the password of the authenticated user
// @Tags user
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /user/change-password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}
	if err := c.Validate(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}

	if err := h.users.ChangePassword(c.Request().Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Password changed successfully",
	})
}

// UpdateProfile godoc
// @Summary Update name and avatar of the authenticated user
// @Tags user
// @Accept mpfd
// @Produce json
// @Param fullName formData string false "Full name"
// @Param avatar formData file false "Avatar image"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /user/update [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}
	if err := c.Validate(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}

	avatarPath, err := saveUpload(c, "avatar", h.uploadDir)
	if err != nil {
		return apperr.ErrFileUpload
	}
	defer removeUpload(avatarPath)

	user, err := h.users.UpdateProfile(c.Request().Context(), claims.UserID, req.FullName, avatarPath)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}
