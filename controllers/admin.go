package controllers

import (
	"net/http"
	"strconv"
	"time"

	"article-review-api/middleware"
	"article-review-api/models"
	"article-review-api/services"
	"article-review-api/utils"

	"github.com/gin-gonic/gin"
)

// CreateUser lets an admin create an account with any role.
func CreateUser(c *gin.Context) {
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

	_, callerRole := middleware.CallerIdentity(c)

	user, err := userService.AdminCreate(callerRole, services.RegisterInput{
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
		"message": "User created successfully",
	})
}

// GetUsers lists all active users.
func GetUsers(c *gin.Context) {
	_, callerRole := middleware.CallerIdentity(c)

	users, err := userService.List(callerRole)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// DeleteUser soft-deletes a user account.
func DeleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	_, callerRole := middleware.CallerIdentity(c)

	if err := userService.Delete(userID, callerRole); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// BlockUser marks an account Blocked. Outstanding tokens stop working on
// the next request because the middleware re-checks account status.
func BlockUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	_, callerRole := middleware.CallerIdentity(c)

	user, err := userService.Block(userID, callerRole)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"message": "User blocked successfully",
	})
}

type ReviewRequestCreateRequest struct {
	ArticleID    int        `json:"article_id" binding:"required"`
	ReviewerID   *int       `json:"reviewer_id"`
	DueDate      *time.Time `json:"due_date"`
	ExpectedTime *string    `json:"expected_time"`
	Pages        *int       `json:"pages"`
}

// CreateReviewRequest routes an article to the reviewer pool or to a named
// reviewer.
func CreateReviewRequest(c *gin.Context) {
	var req ReviewRequestCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, callerRole := middleware.CallerIdentity(c)

	request, err := requestService.Create(callerRole, services.CreateRequestInput{
		ArticleID:    req.ArticleID,
		ReviewerID:   req.ReviewerID,
		DueDate:      req.DueDate,
		ExpectedTime: req.ExpectedTime,
		Pages:        req.Pages,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"request": request,
		"message": "Review request created",
	})
}

// AdminDeleteReview removes a review and puts the article back to Pending
// so it can be routed again.
func AdminDeleteReview(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	_, callerRole := middleware.CallerIdentity(c)

	if err := reviewService.Delete(reviewID, callerRole); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

// AdminDeleteArticle cascade-deletes any article regardless of owner.
func AdminDeleteArticle(c *gin.Context) {
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	userID, _ := middleware.CallerIdentity(c)

	stalePaths, err := articleService.Delete(articleID, userID, models.RoleAdmin)
	if err != nil {
		respondError(c, err)
		return
	}
	removeStoredFiles(stalePaths)

	c.JSON(http.StatusOK, gin.H{"message": "Article deleted successfully"})
}

// GetAllArticles lists every article for admin oversight.
func GetAllArticles(c *gin.Context) {
	articles, err := articleService.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GetAllCompletedReviews lists every submitted review across reviewers.
func GetAllCompletedReviews(c *gin.Context) {
	reviews, err := reviewService.ListCompleted()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
