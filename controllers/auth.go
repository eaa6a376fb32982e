package controllers

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"article-review-api/middleware"
	"article-review-api/models"
	"article-review-api/services"
	"article-review-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Email          string      `json:"email" binding:"required,email"`
	Password       string      `json:"password" binding:"required"`
	FirstName      string      `json:"first_name" binding:"required"`
	LastName       string      `json:"last_name" binding:"required"`
	Role           models.Role `json:"role"`
	Bio            *string     `json:"bio"`
	Institution    *string     `json:"institution"`
	Specialization *string     `json:"specialization"`
	Location       *string     `json:"location"`
	SocialLinks    *string     `json:"social_links"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	Message string      `json:"message"`
}

// Register creates a new Author or Reviewer account.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if valid, message := utils.ValidatePassword(req.Password); !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user, err := userService.Register(services.RegisterInput{
		Email:          req.Email,
		PasswordHash:   hash,
		FirstName:      utils.SanitizeInput(req.FirstName),
		LastName:       utils.SanitizeInput(req.LastName),
		Role:           req.Role,
		Bio:            req.Bio,
		Institution:    req.Institution,
		Specialization: req.Specialization,
		Location:       req.Location,
		SocialLinks:    req.SocialLinks,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    user,
		"message": "Registration successful",
	})
}

// Login authenticates a user and issues a JWT.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Stored emails are lowercased at registration.
	user, err := store.Users().FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if !CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if user.Status == models.UserBlocked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is blocked"})
		return
	}

	token, err := generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		User:    *user,
		Message: "Login successful",
	})
}

// GetProfile returns the current user's profile.
func GetProfile(c *gin.Context) {
	userID, _ := middleware.CallerIdentity(c)

	user, err := userService.Profile(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile updates the current user's profile fields.
func UpdateProfile(c *gin.Context) {
	type ProfileUpdateRequest struct {
		Bio            *string `json:"bio"`
		Institution    *string `json:"institution"`
		Specialization *string `json:"specialization"`
		Location       *string `json:"location"`
		SocialLinks    *string `json:"social_links"`
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := middleware.CallerIdentity(c)

	user, err := userService.UpdateProfile(userID, req.Bio, req.Institution, req.Specialization, req.Location, req.SocialLinks)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"message": "Profile updated successfully",
	})
}

// ChangePassword verifies the current password and stores a new hash.
func ChangePassword(c *gin.Context) {
	type PasswordChangeRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}

	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := middleware.CallerIdentity(c)

	user, err := userService.Profile(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !CheckPasswordHash(req.CurrentPassword, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}
	if valid, message := utils.ValidatePassword(req.NewPassword); !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	if err := store.Users().UpdatePassword(user.UserID, hash, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// generateToken creates a JWT for the given user.
func generateToken(user *models.User) (string, error) {
	expireDays, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_DAYS"))
	if err != nil || expireDays <= 0 {
		expireDays = 7
	}

	claims := middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireDays) * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plaintext password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
