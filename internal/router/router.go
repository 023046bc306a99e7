package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"lms/internal/auth"
	"lms/internal/config"
	"lms/internal/errors"
	"lms/internal/handler"
	"lms/internal/middleware"
	"lms/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	tokens *auth.TokenService,
	userHandler *handler.UserHandler,
	courseHandler *handler.CourseHandler,
	paymentHandler *handler.PaymentHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
	}))

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = errors.HTTPErrorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	authn := middleware.Authenticate(tokens)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// User routes
	user := api.Group("/user")
	user.POST("/register", userHandler.Register)
	user.POST("/login", userHandler.Login)
	user.GET("/logout", userHandler.Logout)
	user.GET("/me", userHandler.Profile, authn)
	user.POST("/forgot-password", userHandler.ForgotPassword)
	user.POST("/reset/:resetToken", userHandler.ResetPassword)
	user.POST("/change-password", userHandler.ChangePassword, authn)
	user.PUT("/update", userHandler.UpdateProfile, authn)

	// Course routes
	courses := api.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.POST("", courseHandler.Create, authn, adminOnly)
	courses.GET("/:id", courseHandler.Lectures, authn, middleware.RequireSubscriber())
	courses.PUT("/:id", courseHandler.Update, authn, adminOnly)
	courses.POST("/:id", courseHandler.AddLecture, authn, adminOnly)
	courses.DELETE("/:courseId/lecture/:lectureId", courseHandler.RemoveLecture, authn, adminOnly)
	courses.DELETE("/:id", courseHandler.Delete, authn, adminOnly)

	// Payment routes
	payment := api.Group("/payment")
	payment.GET("/razorpay-key", paymentHandler.Key, authn)
	payment.POST("/subscribe", paymentHandler.Subscribe, authn)
	payment.POST("/verify", paymentHandler.Verify, authn)
	payment.POST("/unsubscribe", paymentHandler.Unsubscribe, authn)
	payment.GET("", paymentHandler.List, authn, adminOnly)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
