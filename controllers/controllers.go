// Package controllers holds the thin HTTP handlers. Each handler extracts
// the caller's identity, delegates to one workflow service call, and maps
// the returned error kind onto an HTTP status.
package controllers

import (
	"errors"
	"net/http"

	"article-review-api/apperrors"
	"article-review-api/repository"
	"article-review-api/services"

	"github.com/gin-gonic/gin"
)

var (
	store          repository.Store
	articleService *services.ArticleService
	reviewService  *services.ReviewService
	requestService *services.ReviewRequestService
	userService    *services.UserService
)

// Init wires the controllers to a storage backend. Called once from main
// (and from handler tests with the in-memory store).
func Init(s repository.Store) {
	store = s
	articleService = services.NewArticleService(s)
	reviewService = services.NewReviewService(s)
	requestService = services.NewReviewRequestService(s, articleService)
	userService = services.NewUserService(s)
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	c.JSON(status, gin.H{"error": message})
}
