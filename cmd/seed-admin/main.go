// Provisioning script for the initial admin account.
// cmd/seed-admin/main.go
package main

import (
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"derma-review-api/config"
	"derma-review-api/models"
	"derma-review-api/utils"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if strings.TrimSpace(*email) == "" || *password == "" {
		log.Fatal("Both -email and -password are required")
	}
	if ok, msg := utils.ValidatePassword(*password); !ok {
		log.Fatal(msg)
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	var existing models.User
	err := config.DB.Where("email = ? AND delete_at IS NULL", strings.ToLower(strings.TrimSpace(*email))).
		First(&existing).Error
	if err == nil {
		log.Fatalf("A user with email %s already exists (user_id=%d)", *email, existing.UserID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatal("Failed to check existing users:", err)
	}

	hashed, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.User{
		Username:   utils.SanitizeInput(*username),
		Email:      strings.ToLower(strings.TrimSpace(*email)),
		Password:   hashed,
		Role:       models.RoleAdmin,
		IsVerified: true,
		CreateAt:   time.Now(),
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Printf("Admin account created: %s (user_id=%d)", admin.Email, admin.UserID)
}
