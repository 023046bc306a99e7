package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperr "lms/internal/errors"
	"lms/internal/middleware"
	"lms/internal/service"
)

// PaymentHandler handles subscription payment endpoints.
type PaymentHandler struct {
	payments service.PaymentService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// VerifyPaymentRequest is the gateway callback payload.
type VerifyPaymentRequest struct {
	RazorpayPaymentID      string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySubscriptionID string `json:"razorpay_subscription_id" validate:"required"`
	RazorpaySignature      string `json:"razorpay_signature" validate:"required"`
}

// Key godoc
// @Summary Public gateway key for the checkout widget
// @Tags payment
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /payment/razorpay-key [get]
func (h *PaymentHandler) Key(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Razorpay API key",
		"key":     h.payments.KeyID(),
	})
}

// Subscribe godoc
// @Summary Buy a subscription
// @Tags payment
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.Response
// @Failure 500 {object} errors.Response
// @Router /payment/subscribe [post]
func (h *PaymentHandler) Subscribe(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}

	subscriptionID, err := h.payments.Subscribe(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"message":         "Subscribed successfully",
		"subscription_id": subscriptionID,
	})
}

// Verify godoc
// @Summary Verify a subscription payment callback
// @Tags payment
// @Accept json
// @Produce json
// @Param request body VerifyPaymentRequest true "Gateway callback fields"
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.Response
// @Failure 500 {object} errors.Response
// @Router /payment/verify [post]
func (h *PaymentHandler) Verify(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}

	var req VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}
	if err := c.Validate(&req); err != nil {
		return apperr.ErrAllFieldsRequired
	}

	err := h.payments.Verify(c.Request().Context(), claims.UserID,
		req.RazorpayPaymentID, req.RazorpaySubscriptionID, req.RazorpaySignature)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Payment verified successfully!",
	})
}

// Unsubscribe godoc
// @Summary Cancel the subscription
// @Tags payment
// @Produce json
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.Response
// @Failure 500 {object} errors.Response
// @Router /payment/unsubscribe [post]
func (h *PaymentHandler) Unsubscribe(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}

	if err := h.payments.Cancel(c.Request().Context(), claims.UserID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Subscription canceled successfully!",
	})
}

// List godoc
// @Summary All gateway subscriptions
// @Tags payment
// @Produce json
// @Param count query int false "Maximum entries to return" default(10)
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.Response
// @Failure 500 {object} errors.Response
// @Router /payment [get]
func (h *PaymentHandler) List(c echo.Context) error {
	count, _ := strconv.Atoi(c.QueryParam("count"))

	overview, err := h.payments.List(c.Request().Context(), count)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "All payments detail",
		"payments": overview.Subscriptions,
		"records":  overview.Records,
	})
}
