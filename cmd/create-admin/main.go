// Command create-admin seeds an administrator account. Credentials come
// from ADMIN_EMAIL and ADMIN_PASSWORD, with development defaults.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"article-review-api/config"
	"article-review-api/models"
	"article-review-api/repository"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()
	store := repository.NewGormStore(config.DB)

	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
	}

	if _, err := store.Users().FindByEmail(email); err == nil {
		log.Fatalf("User %s already exists", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now()
	admin := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "System",
		LastName:  "Administrator",
		Role:      models.RoleAdmin,
		Status:    models.UserActive,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	if err := store.Users().Create(admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Println("Administrator account created")
	fmt.Printf("Email:    %s\n", email)
	fmt.Printf("Password: %s\n", password)
	fmt.Println("Change this password after the first login.")
}
