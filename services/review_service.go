package services

import (
	"errors"
	"fmt"
	"time"

	"article-review-api/apperrors"
	"article-review-api/models"
	"article-review-api/repository"
)

type ReviewService struct {
	store repository.Store
}

func NewReviewService(store repository.Store) *ReviewService {
	return &ReviewService{store: store}
}

type CreateReviewInput struct {
	ArticleID            int
	Rating               *int
	Recommendation       models.Recommendation
	TechnicalMerit       string
	Originality          string
	PresentationQuality  string
	CommentsToAuthors    string
	ConfidentialComments string
}

// ReviewResponse is the author-safe projection: no confidential comments,
// no reviewer identity.
type ReviewResponse struct {
	ReviewID            int                   `json:"review_id"`
	ArticleID           int                   `json:"article_id"`
	Status              models.ReviewStatus   `json:"status"`
	Rating              *int                  `json:"rating,omitempty"`
	Recommendation      models.Recommendation `json:"recommendation"`
	TechnicalMerit      string                `json:"technical_merit"`
	Originality         string                `json:"originality"`
	PresentationQuality string                `json:"presentation_quality"`
	CommentsToAuthors   string                `json:"comments_to_authors"`
	SubmittedAt         *time.Time            `json:"submitted_at,omitempty"`
}

// CompletedReviewResponse is the privileged projection with reviewer and
// article attribution.
type CompletedReviewResponse struct {
	ReviewResponse
	ReviewerID           int             `json:"reviewer_id"`
	ConfidentialComments string          `json:"confidential_comments"`
	Reviewer             *models.User    `json:"reviewer,omitempty"`
	Article              *models.Article `json:"article,omitempty"`
}

func toReviewResponse(review *models.Review) ReviewResponse {
	return ReviewResponse{
		ReviewID:            review.ReviewID,
		ArticleID:           review.ArticleID,
		Status:              review.Status,
		Rating:              review.Rating,
		Recommendation:      review.Recommendation,
		TechnicalMerit:      review.TechnicalMerit,
		Originality:         review.Originality,
		PresentationQuality: review.PresentationQuality,
		CommentsToAuthors:   review.CommentsToAuthors,
		SubmittedAt:         review.SubmittedAt,
	}
}

func toCompletedReviewResponse(review *models.Review) CompletedReviewResponse {
	return CompletedReviewResponse{
		ReviewResponse:       toReviewResponse(review),
		ReviewerID:           review.ReviewerID,
		ConfidentialComments: review.ConfidentialComments,
		Reviewer:             review.Reviewer,
		Article:              review.Article,
	}
}

// Create inserts a Draft review against an Accepted article and moves the
// article to Submitted. Both writes happen in one transaction.
func (s *ReviewService) Create(reviewerID int, role models.Role, in CreateReviewInput) (*models.Review, error) {
	if role != models.RoleReviewer && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only reviewers can create reviews", apperrors.ErrForbidden)
	}
	if in.ArticleID <= 0 {
		return nil, fmt.Errorf("%w: article id must be positive", apperrors.ErrBadRequest)
	}
	if reviewerID <= 0 {
		return nil, fmt.Errorf("%w: reviewer could not be resolved", apperrors.ErrBadRequest)
	}

	review := &models.Review{
		ArticleID:            in.ArticleID,
		ReviewerID:           reviewerID,
		Status:               models.ReviewDraft,
		Rating:               in.Rating,
		Recommendation:       in.Recommendation,
		TechnicalMerit:       in.TechnicalMerit,
		Originality:          in.Originality,
		PresentationQuality:  in.PresentationQuality,
		CommentsToAuthors:    in.CommentsToAuthors,
		ConfidentialComments: in.ConfidentialComments,
		CreateAt:             time.Now(),
	}

	err := s.store.Atomically(func(tx repository.Store) error {
		article, err := tx.Articles().FindByID(in.ArticleID)
		if err != nil {
			return fmt.Errorf("%w: article not found", apperrors.ErrNotFound)
		}
		if article.Status != models.ArticleAccepted {
			return fmt.Errorf("%w: article in status %s is not under review", apperrors.ErrConflict, article.Status)
		}

		if err := tx.Reviews().Create(review); err != nil {
			return err
		}

		article.Status = models.ArticleSubmitted
		article.UpdateAt = time.Now()
		return tx.Articles().Update(article)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Submit marks the review Submitted and re-derives the owning article's
// status from the recommendation in the same transaction. Submitting twice
// is a conflict, so the derivation runs exactly once.
func (s *ReviewService) Submit(reviewID int) (*models.Review, error) {
	var submitted *models.Review

	err := s.store.Atomically(func(tx repository.Store) error {
		review, err := tx.Reviews().FindByID(reviewID)
		if err != nil {
			return fmt.Errorf("%w: review not found", apperrors.ErrNotFound)
		}
		if review.Status == models.ReviewSubmitted {
			return fmt.Errorf("%w: review has already been submitted", apperrors.ErrConflict)
		}

		now := time.Now()
		review.Status = models.ReviewSubmitted
		review.SubmittedAt = &now
		if err := tx.Reviews().Update(review); err != nil {
			return err
		}

		if status, ok := review.Recommendation.ArticleOutcome(); ok {
			article, err := tx.Articles().FindByID(review.ArticleID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					submitted = review
					return nil
				}
				return err
			}
			article.Status = status
			article.UpdateAt = now
			if err := tx.Articles().Update(article); err != nil {
				return err
			}
		}

		submitted = review
		return nil
	})
	if err != nil {
		return nil, err
	}
	return submitted, nil
}

// Delete removes a review and re-opens the owning article for another
// review cycle by resetting it to Pending. Admin only.
func (s *ReviewService) Delete(reviewID int, role models.Role) error {
	if role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins can delete reviews", apperrors.ErrForbidden)
	}

	return s.store.Atomically(func(tx repository.Store) error {
		review, err := tx.Reviews().FindByID(reviewID)
		if err != nil {
			return fmt.Errorf("%w: review not found", apperrors.ErrNotFound)
		}

		if article, err := tx.Articles().FindByID(review.ArticleID); err == nil {
			article.Status = models.ArticlePending
			article.UpdateAt = time.Now()
			if err := tx.Articles().Update(article); err != nil {
				return err
			}
		}

		return tx.Reviews().Delete(reviewID)
	})
}

// Get returns the privileged projection of one review.
func (s *ReviewService) Get(reviewID int) (*CompletedReviewResponse, error) {
	review, err := s.store.Reviews().FindByIDWithRelations(reviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: review not found", apperrors.ErrNotFound)
	}
	resp := toCompletedReviewResponse(review)
	return &resp, nil
}

// ListCompletedByReviewer returns the caller's submitted reviews joined with
// article and author info.
func (s *ReviewService) ListCompletedByReviewer(reviewerID int) ([]CompletedReviewResponse, error) {
	reviews, err := s.store.Reviews().ListSubmittedByReviewer(reviewerID)
	if err != nil {
		return nil, err
	}
	responses := make([]CompletedReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, toCompletedReviewResponse(&reviews[i]))
	}
	return responses, nil
}

// ListCompleted returns every submitted review. Admin listing.
func (s *ReviewService) ListCompleted() ([]CompletedReviewResponse, error) {
	reviews, err := s.store.Reviews().ListSubmitted()
	if err != nil {
		return nil, err
	}
	responses := make([]CompletedReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, toCompletedReviewResponse(&reviews[i]))
	}
	return responses, nil
}

// ListForArticle projects an article's submitted reviews for the caller.
// The article's author gets the author-safe shape, reviewers and admins the
// privileged one, anyone else is refused.
func (s *ReviewService) ListForArticle(articleID, callerID int, role models.Role) (interface{}, error) {
	article, err := s.store.Articles().FindByID(articleID)
	if err != nil {
		return nil, fmt.Errorf("%w: article not found", apperrors.ErrNotFound)
	}

	privileged := role == models.RoleAdmin || role == models.RoleReviewer
	if !privileged && article.AuthorID != callerID {
		return nil, fmt.Errorf("%w: reviews are visible to the author and privileged roles only", apperrors.ErrForbidden)
	}

	reviews, err := s.store.Reviews().ListByArticle(articleID)
	if err != nil {
		return nil, err
	}

	if privileged {
		responses := make([]CompletedReviewResponse, 0, len(reviews))
		for i := range reviews {
			responses = append(responses, toCompletedReviewResponse(&reviews[i]))
		}
		return responses, nil
	}

	responses := make([]ReviewResponse, 0)
	for i := range reviews {
		if reviews[i].Status == models.ReviewSubmitted {
			responses = append(responses, toReviewResponse(&reviews[i]))
		}
	}
	return responses, nil
}
