// Package repository defines the storage port the workflow services run
// against, plus its GORM and in-memory implementations.
package repository

import (
	"time"

	"article-review-api/models"
)

// Store aggregates the per-entity repositories. Atomically runs fn against a
// store whose writes commit or roll back as one unit; every workflow
// operation touching more than one entity goes through it.
type Store interface {
	Users() UserRepository
	Articles() ArticleRepository
	Reviews() ReviewRepository
	ReviewRequests() ReviewRequestRepository
	Files() FileRepository
	Tokens() TokenRepository

	Atomically(fn func(Store) error) error
}

// Repositories return apperrors.ErrNotFound for missing rows and
// apperrors.ErrConflict for conditional updates that matched nothing.

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id int) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	List() ([]models.User, error)
	Update(user *models.User) error
	SoftDelete(id int, now time.Time) error
	UpdatePassword(id int, passwordHash string, now time.Time) error
}

type ArticleRepository interface {
	Create(article *models.Article) error
	FindByID(id int) (*models.Article, error)
	FindByIDWithAuthor(id int) (*models.Article, error)
	ListByAuthor(authorID int) ([]models.Article, error)
	ListAll() ([]models.Article, error)
	Update(article *models.Article) error
	Delete(id int) error
}

type ReviewRepository interface {
	Create(review *models.Review) error
	FindByID(id int) (*models.Review, error)
	FindByIDWithRelations(id int) (*models.Review, error)
	ListSubmittedByReviewer(reviewerID int) ([]models.Review, error)
	ListSubmitted() ([]models.Review, error)
	ListByArticle(articleID int) ([]models.Review, error)
	Update(review *models.Review) error
	Delete(id int) error
	DeleteByArticle(articleID int) error
}

type ReviewRequestRepository interface {
	Create(request *models.ReviewRequest) error
	FindByID(id int) (*models.ReviewRequest, error)
	ListOpenFor(reviewerID int) ([]models.ReviewRequest, error)
	ListAcceptedBy(reviewerID int) ([]models.ReviewRequest, error)
	// Claim assigns the request to reviewerID iff it is still Pending and
	// either unassigned or already assigned to that reviewer. A lost race
	// surfaces as apperrors.ErrConflict.
	Claim(requestID, reviewerID int) error
	// Decline moves a Pending request to Declined; anything else conflicts.
	Decline(requestID int) error
	DeleteByArticle(articleID int) error
}

type FileRepository interface {
	Create(file *models.FileUpload) error
	FindLatestByArticle(articleID int) (*models.FileUpload, error)
	DeleteByArticle(articleID int) error
}

type TokenRepository interface {
	Create(token *models.UserToken) error
	ListActiveByType(tokenType string, now time.Time) ([]models.UserToken, error)
	Revoke(tokenID int, now time.Time) error
	RevokeAllForUser(userID int, tokenType string, now time.Time) error
}
