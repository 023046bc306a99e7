package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lms/internal/config"
	"lms/internal/db"
	"lms/internal/model"
	"lms/internal/repository"
)

var sampleCourses = []model.Course{
	{
		Title:       "Go for Backend Engineers",
		Description: "A hands-on introduction to building production HTTP services in Go, from routing and persistence to authentication and deployment.",
		Category:    "Programming",
		CreatedBy:   "Priya Sharma",
	},
	{
		Title:       "Relational Database Design",
		Description: "Schema design, normalization, indexing strategy and query tuning, taught against a realistic order-management workload.",
		Category:    "Databases",
		CreatedBy:   "Daniel Okafor",
	},
	{
		Title:       "Practical Web Security",
		Description: "Authentication, session management, common vulnerability classes and the defenses that actually hold up in production systems.",
		Category:    "Security",
		CreatedBy:   "Mei-Ling Chen",
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	courses := repository.NewCourseRepository(gormDB)

	adminEmail := getEnv("ADMIN_EMAIL", "admin@lms.local")
	adminPassword := getEnv("ADMIN_PASSWORD", "changeme123")

	if _, err := users.FindByEmail(ctx, adminEmail); err == gorm.ErrRecordNotFound {
		hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), 10)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		admin := &model.User{
			ID:           uuid.New(),
			FullName:     "platform admin",
			Email:        adminEmail,
			PasswordHash: string(hashed),
			Role:         model.RoleAdmin,
		}
		if err := users.Create(ctx, admin); err != nil {
			log.Fatalf("Failed to create admin user: %v", err)
		}
		log.Printf("Created admin user %s", adminEmail)
	} else if err != nil {
		log.Fatalf("Failed to look up admin user: %v", err)
	} else {
		log.Printf("Admin user %s already exists, skipping", adminEmail)
	}

	created := 0
	for i := range sampleCourses {
		course := sampleCourses[i]
		course.ID = uuid.New()
		if err := courses.Create(ctx, &course); err != nil {
			log.Printf("Skipping course %q: %v", course.Title, err)
			continue
		}
		created++
	}
	log.Printf("Seeded %d sample courses", created)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
