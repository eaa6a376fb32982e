package controllers

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"article-review-api/apperrors"
	"article-review-api/config"
	"article-review-api/models"
	"article-review-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Overridable in tests so no SMTP server is needed.
var sendMailFunc = config.SendMail

const resetTokenTTL = 10 * time.Minute

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ForgotPassword issues a one-time reset token and mails it to the account
// owner. The response is identical whether or not the email exists, to avoid
// account enumeration.
func ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	neutral := gin.H{"message": "If the email exists, a reset link has been sent."}

	user, err := store.Users().FindByEmail(strings.ToLower(req.Email))
	if err != nil {
		c.JSON(http.StatusOK, neutral)
		return
	}

	rawToken := uuid.NewString()
	hashedToken, err := HashPassword(rawToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reset token"})
		return
	}

	now := time.Now()
	if err := store.Tokens().RevokeAllForUser(user.UserID, models.TokenTypePasswordReset, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare reset token"})
		return
	}

	token := models.UserToken{
		UserID:    user.UserID,
		TokenType: models.TokenTypePasswordReset,
		TokenHash: hashedToken,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.Tokens().Create(&token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store reset token"})
		return
	}

	if err := sendPasswordResetEmail(user, rawToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send reset email"})
		return
	}

	c.JSON(http.StatusOK, neutral)
}

// ResetPassword exchanges a valid reset token for a new password and revokes
// every outstanding token for that account.
func ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	req.Token = utils.SanitizeInput(req.Token)
	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}
	if valid, message := utils.ValidatePassword(req.NewPassword); !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return
	}

	now := time.Now()
	tokenRecord, err := findActiveResetToken(req.Token, now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	hashedPassword, err := HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	if err := store.Users().UpdatePassword(tokenRecord.UserID, hashedPassword, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}
	if err := store.Tokens().RevokeAllForUser(tokenRecord.UserID, models.TokenTypePasswordReset, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize reset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// Tokens are stored hashed, so matching means comparing the raw token
// against each active hash.
func findActiveResetToken(rawToken string, now time.Time) (*models.UserToken, error) {
	tokens, err := store.Tokens().ListActiveByType(models.TokenTypePasswordReset, now)
	if err != nil {
		return nil, err
	}
	for i := range tokens {
		if CheckPasswordHash(rawToken, tokens[i].TokenHash) {
			return &tokens[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func sendPasswordResetEmail(user *models.User, rawToken string) error {
	baseURL := strings.TrimSpace(os.Getenv("APP_BASE_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(baseURL, "/"), rawToken)

	fullName := strings.TrimSpace(fmt.Sprintf("%s %s", user.FirstName, user.LastName))
	if fullName == "" {
		fullName = user.Email
	}

	subject := "Password reset instructions"
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"We received a request to reset the password for your account.\n"+
			"Open the link below to choose a new password. The link expires in %d minutes.\n\n"+
			"%s\n\n"+
			"If you did not request a reset, you can ignore this message.\n",
		fullName, int(resetTokenTTL.Minutes()), resetURL,
	)

	return sendMailFunc([]string{user.Email}, subject, body)
}
