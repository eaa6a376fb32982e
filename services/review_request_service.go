package services

import (
	"fmt"
	"time"

	"article-review-api/apperrors"
	"article-review-api/models"
	"article-review-api/repository"
)

type ReviewRequestService struct {
	store    repository.Store
	articles *ArticleService
}

func NewReviewRequestService(store repository.Store, articles *ArticleService) *ReviewRequestService {
	return &ReviewRequestService{store: store, articles: articles}
}

type CreateRequestInput struct {
	ArticleID    int
	ReviewerID   *int
	DueDate      *time.Time
	ExpectedTime *string
	Pages        *int
}

// Create inserts a Pending review request. A nil reviewer leaves the request
// in the shared unassigned pool. Admin only.
func (s *ReviewRequestService) Create(role models.Role, in CreateRequestInput) (*models.ReviewRequest, error) {
	if role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins can create review requests", apperrors.ErrForbidden)
	}
	if in.ArticleID <= 0 {
		return nil, fmt.Errorf("%w: article id must be positive", apperrors.ErrBadRequest)
	}
	if _, err := s.store.Articles().FindByID(in.ArticleID); err != nil {
		return nil, fmt.Errorf("%w: article not found", apperrors.ErrNotFound)
	}
	if in.ReviewerID != nil {
		reviewer, err := s.store.Users().FindByID(*in.ReviewerID)
		if err != nil {
			return nil, fmt.Errorf("%w: reviewer not found", apperrors.ErrNotFound)
		}
		if reviewer.Role != models.RoleReviewer && reviewer.Role != models.RoleAdmin {
			return nil, fmt.Errorf("%w: assigned user is not a reviewer", apperrors.ErrBadRequest)
		}
	}

	request := &models.ReviewRequest{
		ArticleID:    in.ArticleID,
		ReviewerID:   in.ReviewerID,
		Status:       models.RequestPending,
		RequestDate:  time.Now(),
		DueDate:      in.DueDate,
		ExpectedTime: in.ExpectedTime,
		Pages:        in.Pages,
	}
	if err := s.store.ReviewRequests().Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

// ListOpen returns the caller's personal pending queue plus the shared
// unassigned pool.
func (s *ReviewRequestService) ListOpen(reviewerID int) ([]models.ReviewRequest, error) {
	return s.store.ReviewRequests().ListOpenFor(reviewerID)
}

// ListInProgress returns the requests the caller has accepted.
func (s *ReviewRequestService) ListInProgress(reviewerID int) ([]models.ReviewRequest, error) {
	return s.store.ReviewRequests().ListAcceptedBy(reviewerID)
}

// Accept claims the request for the caller and accepts the target article
// for review, all in one transaction. The claim is a conditional update:
// under two concurrent callers exactly one wins, the other gets a conflict.
func (s *ReviewRequestService) Accept(requestID, reviewerID int) (*models.ReviewRequest, error) {
	var accepted *models.ReviewRequest

	err := s.store.Atomically(func(tx repository.Store) error {
		request, err := tx.ReviewRequests().FindByID(requestID)
		if err != nil {
			return fmt.Errorf("%w: review request not found", apperrors.ErrNotFound)
		}
		if request.Status != models.RequestPending {
			return fmt.Errorf("%w: request is no longer pending", apperrors.ErrConflict)
		}
		if request.ReviewerID != nil && *request.ReviewerID != reviewerID {
			return fmt.Errorf("%w: request is assigned to another reviewer", apperrors.ErrForbidden)
		}

		if err := tx.ReviewRequests().Claim(requestID, reviewerID); err != nil {
			return fmt.Errorf("%w: request was claimed by another reviewer", apperrors.ErrConflict)
		}

		if _, err := s.articles.acceptForReview(tx, request.ArticleID); err != nil {
			return err
		}

		claimant := reviewerID
		request.ReviewerID = &claimant
		request.Status = models.RequestAccepted
		accepted = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

// Decline marks a Pending request Declined. Terminal; the article stays
// available to other reviewers.
func (s *ReviewRequestService) Decline(requestID int) (*models.ReviewRequest, error) {
	request, err := s.store.ReviewRequests().FindByID(requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: review request not found", apperrors.ErrNotFound)
	}
	if err := s.store.ReviewRequests().Decline(requestID); err != nil {
		return nil, fmt.Errorf("%w: request is no longer pending", apperrors.ErrConflict)
	}
	request.Status = models.RequestDeclined
	return request, nil
}
