package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "lms/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"lms/internal/auth"
	"lms/internal/cache"
	"lms/internal/config"
	"lms/internal/db"
	"lms/internal/gateway"
	"lms/internal/handler"
	"lms/internal/mail"
	"lms/internal/model"
	"lms/internal/repository"
	"lms/internal/router"
	"lms/internal/service"
	"lms/internal/storage"
)

// @title Learning Management API
// @version 1.0
// @description Learning management backend with user accounts, course catalog and subscription payments.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Payment{},
			&model.Lecture{},
			&model.Course{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	store, err := storage.NewS3(context.Background(),
		cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint,
		cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3PublicURL)
	if err != nil {
		log.Fatalf("object storage init: %v", err)
	}

	mailer := mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFromEmail)
	gw := gateway.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpaySecret)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	courseRepo := repository.NewCourseRepository(gormDB)
	paymentRepo := repository.NewPaymentRepository(gormDB)

	// Initialize services
	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepo, tokenService, store, mailer, cfg.ClientURL)
	courseService := service.NewCourseService(courseRepo, store, cacheClient)
	paymentService := service.NewPaymentService(userRepo, paymentRepo, gw, cfg.RazorpayKeyID, cfg.RazorpaySecret, cfg.RazorpayPlanID)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService, tokenService, cfg.UploadDir)
	courseHandler := handler.NewCourseHandler(courseService, cfg.UploadDir)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	// Register routes
	router.Register(e, cfg, tokenService, userHandler, courseHandler, paymentHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
