package controllers

import (
	"net/http"
	"strconv"

	"article-review-api/middleware"

	"github.com/gin-gonic/gin"
)

// GetNewRequests lists pending review requests visible to the caller: the
// unassigned pool plus requests addressed to them.
func GetNewRequests(c *gin.Context) {
	userID, _ := middleware.CallerIdentity(c)

	requests, err := requestService.ListOpen(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// GetInProgressRequests lists requests the caller has accepted.
func GetInProgressRequests(c *gin.Context) {
	userID, _ := middleware.CallerIdentity(c)

	requests, err := requestService.ListInProgress(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// AcceptReviewRequest claims a pending request for the caller and accepts
// the article for review. Losing a claim race yields a conflict.
func AcceptReviewRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	userID, _ := middleware.CallerIdentity(c)

	request, err := requestService.Accept(requestID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request": request,
		"message": "Review request accepted",
	})
}

// DeclineReviewRequest declines a pending request. The article keeps its
// current status.
func DeclineReviewRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	request, err := requestService.Decline(requestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request": request,
		"message": "Review request declined",
	})
}
