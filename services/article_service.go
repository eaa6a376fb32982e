// Package services holds the workflow engine: article, review and
// review-request lifecycles with their role-gated transition rules. Services
// talk to storage only through the repository.Store port.
package services

import (
	"fmt"
	"strings"
	"time"

	"article-review-api/apperrors"
	"article-review-api/models"
	"article-review-api/repository"
)

type ArticleService struct {
	store repository.Store
}

func NewArticleService(store repository.Store) *ArticleService {
	return &ArticleService{store: store}
}

type CreateArticleInput struct {
	Title    string
	Content  string
	Category string
	Tags     []string
}

// Create inserts a new Draft article owned by the caller.
func (s *ArticleService) Create(authorID int, role models.Role, in CreateArticleInput) (*models.Article, error) {
	if role != models.RoleAuthor {
		return nil, fmt.Errorf("%w: only authors can create articles", apperrors.ErrForbidden)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrBadRequest)
	}

	now := time.Now()
	article := &models.Article{
		Title:    strings.TrimSpace(in.Title),
		Content:  in.Content,
		Category: in.Category,
		Tags:     in.Tags,
		Status:   models.ArticleDraft,
		AuthorID: authorID,
		CreateAt: now,
		UpdateAt: now,
	}
	if article.Tags == nil {
		article.Tags = []string{}
	}

	if err := s.store.Articles().Create(article); err != nil {
		return nil, err
	}
	return article, nil
}

// Submit moves the caller's own Draft or NeedsRevision article to Pending
// and stamps the submitted date.
func (s *ArticleService) Submit(articleID, callerID int) (*models.Article, error) {
	article, err := s.store.Articles().FindByID(articleID)
	if err != nil {
		return nil, fmt.Errorf("%w: article not found", apperrors.ErrNotFound)
	}
	if article.AuthorID != callerID {
		return nil, fmt.Errorf("%w: article belongs to another author", apperrors.ErrForbidden)
	}
	if article.Status != models.ArticleDraft && article.Status != models.ArticleNeedsRevision {
		return nil, fmt.Errorf("%w: article in status %s cannot be submitted", apperrors.ErrConflict, article.Status)
	}

	now := time.Now()
	article.Status = models.ArticlePending
	article.SubmittedDate = &now
	article.UpdateAt = now

	if err := s.store.Articles().Update(article); err != nil {
		return nil, err
	}
	return article, nil
}

// AcceptForReview moves a Pending or Draft article to Accepted. Re-accepting
// an already-Accepted article is a conflict rather than a silent re-set.
func (s *ArticleService) AcceptForReview(articleID int) (*models.Article, error) {
	return s.acceptForReview(s.store, articleID)
}

func (s *ArticleService) acceptForReview(store repository.Store, articleID int) (*models.Article, error) {
	article, err := store.Articles().FindByID(articleID)
	if err != nil {
		return nil, fmt.Errorf("%w: article not found", apperrors.ErrNotFound)
	}
	if article.Status == models.ArticleAccepted {
		return nil, fmt.Errorf("%w: article is already accepted for review", apperrors.ErrConflict)
	}
	if article.Status != models.ArticlePending && article.Status != models.ArticleDraft {
		return nil, fmt.Errorf("%w: article in status %s cannot be accepted for review", apperrors.ErrConflict, article.Status)
	}

	article.Status = models.ArticleAccepted
	article.UpdateAt = time.Now()

	if err := store.Articles().Update(article); err != nil {
		return nil, err
	}
	return article, nil
}

// Delete removes an article together with its reviews, review requests and
// stored file records. Authors may delete their own articles, admins any.
// The removed file paths are returned so the caller can unlink them from
// disk after the transaction commits.
func (s *ArticleService) Delete(articleID, callerID int, role models.Role) ([]string, error) {
	article, err := s.store.Articles().FindByID(articleID)
	if err != nil {
		return nil, fmt.Errorf("%w: article not found", apperrors.ErrNotFound)
	}
	if role != models.RoleAdmin && article.AuthorID != callerID {
		return nil, fmt.Errorf("%w: article belongs to another author", apperrors.ErrForbidden)
	}

	var stalePaths []string
	err = s.store.Atomically(func(tx repository.Store) error {
		if file, err := tx.Files().FindLatestByArticle(articleID); err == nil {
			stalePaths = append(stalePaths, file.StoredPath)
		}
		if err := tx.Reviews().DeleteByArticle(articleID); err != nil {
			return err
		}
		if err := tx.ReviewRequests().DeleteByArticle(articleID); err != nil {
			return err
		}
		if err := tx.Files().DeleteByArticle(articleID); err != nil {
			return err
		}
		return tx.Articles().Delete(articleID)
	})
	if err != nil {
		return nil, err
	}
	return stalePaths, nil
}

// Get returns the article with its author loaded.
func (s *ArticleService) Get(articleID int) (*models.Article, error) {
	article, err := s.store.Articles().FindByIDWithAuthor(articleID)
	if err != nil {
		return nil, fmt.Errorf("%w: article not found", apperrors.ErrNotFound)
	}
	return article, nil
}

func (s *ArticleService) ListByAuthor(authorID int) ([]models.Article, error) {
	return s.store.Articles().ListByAuthor(authorID)
}

func (s *ArticleService) ListAll() ([]models.Article, error) {
	return s.store.Articles().ListAll()
}

// RecordUpload stores the metadata row for an uploaded manuscript. The
// caller must own the article unless they are an admin.
func (s *ArticleService) RecordUpload(file *models.FileUpload, callerID int, role models.Role) error {
	article, err := s.store.Articles().FindByID(file.ArticleID)
	if err != nil {
		return fmt.Errorf("%w: article not found", apperrors.ErrNotFound)
	}
	if role != models.RoleAdmin && article.AuthorID != callerID {
		return fmt.Errorf("%w: article belongs to another author", apperrors.ErrForbidden)
	}
	return s.store.Files().Create(file)
}

// Manuscript returns the latest stored file for an article.
func (s *ArticleService) Manuscript(articleID int) (*models.FileUpload, error) {
	if _, err := s.store.Articles().FindByID(articleID); err != nil {
		return nil, fmt.Errorf("%w: article not found", apperrors.ErrNotFound)
	}
	file, err := s.store.Files().FindLatestByArticle(articleID)
	if err != nil {
		return nil, fmt.Errorf("%w: article has no stored file", apperrors.ErrNotFound)
	}
	return file, nil
}
