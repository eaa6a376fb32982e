package controllers

import (
	"net/http"
	"strconv"

	"article-review-api/middleware"
	"article-review-api/models"
	"article-review-api/services"

	"github.com/gin-gonic/gin"
)

type ReviewCreateRequest struct {
	ArticleID            int                   `json:"article_id" binding:"required"`
	Rating               *int                  `json:"rating"`
	Recommendation       models.Recommendation `json:"recommendation"`
	TechnicalMerit       string                `json:"technical_merit"`
	Originality          string                `json:"originality"`
	PresentationQuality  string                `json:"presentation_quality"`
	CommentsToAuthors    string                `json:"comments_to_authors"`
	ConfidentialComments string                `json:"confidential_comments"`
}

// CreateReview opens a draft review for an Accepted article and moves the
// article to Submitted (under review).
func CreateReview(c *gin.Context) {
	var req ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, role := middleware.CallerIdentity(c)

	review, err := reviewService.Create(userID, role, services.CreateReviewInput{
		ArticleID:            req.ArticleID,
		Rating:               req.Rating,
		Recommendation:       req.Recommendation,
		TechnicalMerit:       req.TechnicalMerit,
		Originality:          req.Originality,
		PresentationQuality:  req.PresentationQuality,
		CommentsToAuthors:    req.CommentsToAuthors,
		ConfidentialComments: req.ConfidentialComments,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"review":  review,
		"message": "Review created successfully",
	})
}

// SubmitReview finalizes a review; the recommendation drives the article's
// next status.
func SubmitReview(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	review, err := reviewService.Submit(reviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review":  review,
		"message": "Review submitted successfully",
	})
}

// GetReview returns one review in the privileged projection.
func GetReview(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	review, err := reviewService.Get(reviewID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

// GetCompletedReviews lists the caller's own submitted reviews with article
// and author attribution.
func GetCompletedReviews(c *gin.Context) {
	userID, _ := middleware.CallerIdentity(c)

	reviews, err := reviewService.ListCompletedByReviewer(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
