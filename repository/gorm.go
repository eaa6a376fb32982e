package repository

import (
	"errors"
	"time"

	"article-review-api/apperrors"
	"article-review-api/models"

	"gorm.io/gorm"
)

// GormStore implements Store on top of a *gorm.DB connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository                   { return &gormUserRepo{db: s.db} }
func (s *GormStore) Articles() ArticleRepository             { return &gormArticleRepo{db: s.db} }
func (s *GormStore) Reviews() ReviewRepository               { return &gormReviewRepo{db: s.db} }
func (s *GormStore) ReviewRequests() ReviewRequestRepository { return &gormRequestRepo{db: s.db} }
func (s *GormStore) Files() FileRepository                   { return &gormFileRepo{db: s.db} }
func (s *GormStore) Tokens() TokenRepository                 { return &gormTokenRepo{db: s.db} }

func (s *GormStore) Atomically(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}

type gormUserRepo struct {
	db *gorm.DB
}

func (r *gormUserRepo) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *gormUserRepo) FindByID(id int) (*models.User, error) {
	var user models.User
	if err := r.db.Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUserRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ? AND delete_at IS NULL", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUserRepo) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("delete_at IS NULL").Order("user_id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *gormUserRepo) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *gormUserRepo) SoftDelete(id int, now time.Time) error {
	result := r.db.Model(&models.User{}).
		Where("user_id = ? AND delete_at IS NULL", id).
		Updates(map[string]interface{}{
			"delete_at": now,
			"update_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *gormUserRepo) UpdatePassword(id int, passwordHash string, now time.Time) error {
	result := r.db.Model(&models.User{}).
		Where("user_id = ? AND delete_at IS NULL", id).
		Updates(map[string]interface{}{
			"password":  passwordHash,
			"update_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type gormArticleRepo struct {
	db *gorm.DB
}

func (r *gormArticleRepo) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

func (r *gormArticleRepo) FindByID(id int) (*models.Article, error) {
	var article models.Article
	if err := r.db.Where("article_id = ?", id).First(&article).Error; err != nil {
		return nil, translate(err)
	}
	return &article, nil
}

func (r *gormArticleRepo) FindByIDWithAuthor(id int) (*models.Article, error) {
	var article models.Article
	if err := r.db.Preload("Author").Where("article_id = ?", id).First(&article).Error; err != nil {
		return nil, translate(err)
	}
	return &article, nil
}

func (r *gormArticleRepo) ListByAuthor(authorID int) ([]models.Article, error) {
	var articles []models.Article
	if err := r.db.Where("author_id = ?", authorID).Order("article_id").Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *gormArticleRepo) ListAll() ([]models.Article, error) {
	var articles []models.Article
	if err := r.db.Order("article_id").Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *gormArticleRepo) Update(article *models.Article) error {
	return r.db.Save(article).Error
}

func (r *gormArticleRepo) Delete(id int) error {
	return r.db.Delete(&models.Article{}, "article_id = ?", id).Error
}

type gormReviewRepo struct {
	db *gorm.DB
}

func (r *gormReviewRepo) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *gormReviewRepo) FindByID(id int) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("review_id = ?", id).First(&review).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *gormReviewRepo) FindByIDWithRelations(id int) (*models.Review, error) {
	var review models.Review
	if err := r.db.Preload("Article").Preload("Article.Author").Preload("Reviewer").
		Where("review_id = ?", id).First(&review).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *gormReviewRepo) ListSubmittedByReviewer(reviewerID int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("Article").Preload("Article.Author").
		Where("reviewer_id = ? AND status = ?", reviewerID, models.ReviewSubmitted).
		Order("review_id").Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *gormReviewRepo) ListSubmitted() ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("Article").Preload("Reviewer").
		Where("status = ?", models.ReviewSubmitted).
		Order("review_id").Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *gormReviewRepo) ListByArticle(articleID int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("Reviewer").
		Where("article_id = ?", articleID).
		Order("review_id").Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *gormReviewRepo) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

func (r *gormReviewRepo) Delete(id int) error {
	return r.db.Delete(&models.Review{}, "review_id = ?", id).Error
}

func (r *gormReviewRepo) DeleteByArticle(articleID int) error {
	return r.db.Delete(&models.Review{}, "article_id = ?", articleID).Error
}

type gormRequestRepo struct {
	db *gorm.DB
}

func (r *gormRequestRepo) Create(request *models.ReviewRequest) error {
	return r.db.Create(request).Error
}

func (r *gormRequestRepo) FindByID(id int) (*models.ReviewRequest, error) {
	var request models.ReviewRequest
	if err := r.db.Where("request_id = ?", id).First(&request).Error; err != nil {
		return nil, translate(err)
	}
	return &request, nil
}

func (r *gormRequestRepo) ListOpenFor(reviewerID int) ([]models.ReviewRequest, error) {
	var requests []models.ReviewRequest
	err := r.db.Preload("Article").
		Where("status = ? AND (reviewer_id IS NULL OR reviewer_id = ?)", models.RequestPending, reviewerID).
		Order("request_id").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *gormRequestRepo) ListAcceptedBy(reviewerID int) ([]models.ReviewRequest, error) {
	var requests []models.ReviewRequest
	err := r.db.Preload("Article").
		Where("status = ? AND reviewer_id = ?", models.RequestAccepted, reviewerID).
		Order("request_id").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *gormRequestRepo) Claim(requestID, reviewerID int) error {
	result := r.db.Model(&models.ReviewRequest{}).
		Where("request_id = ? AND status = ? AND (reviewer_id IS NULL OR reviewer_id = ?)",
			requestID, models.RequestPending, reviewerID).
		Updates(map[string]interface{}{
			"reviewer_id": reviewerID,
			"status":      models.RequestAccepted,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

func (r *gormRequestRepo) Decline(requestID int) error {
	result := r.db.Model(&models.ReviewRequest{}).
		Where("request_id = ? AND status = ?", requestID, models.RequestPending).
		Update("status", models.RequestDeclined)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

func (r *gormRequestRepo) DeleteByArticle(articleID int) error {
	return r.db.Delete(&models.ReviewRequest{}, "article_id = ?", articleID).Error
}

type gormFileRepo struct {
	db *gorm.DB
}

func (r *gormFileRepo) Create(file *models.FileUpload) error {
	return r.db.Create(file).Error
}

func (r *gormFileRepo) FindLatestByArticle(articleID int) (*models.FileUpload, error) {
	var file models.FileUpload
	err := r.db.Where("article_id = ?", articleID).
		Order("file_id DESC").First(&file).Error
	if err != nil {
		return nil, translate(err)
	}
	return &file, nil
}

func (r *gormFileRepo) DeleteByArticle(articleID int) error {
	return r.db.Delete(&models.FileUpload{}, "article_id = ?", articleID).Error
}

type gormTokenRepo struct {
	db *gorm.DB
}

func (r *gormTokenRepo) Create(token *models.UserToken) error {
	return r.db.Create(token).Error
}

func (r *gormTokenRepo) ListActiveByType(tokenType string, now time.Time) ([]models.UserToken, error) {
	var tokens []models.UserToken
	err := r.db.Where("token_type = ? AND is_revoked = ? AND expires_at > ?", tokenType, false, now).
		Order("created_at DESC").Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *gormTokenRepo) Revoke(tokenID int, now time.Time) error {
	return r.db.Model(&models.UserToken{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

func (r *gormTokenRepo) RevokeAllForUser(userID int, tokenType string, now time.Time) error {
	return r.db.Model(&models.UserToken{}).
		Where("user_id = ? AND token_type = ? AND is_revoked = ?", userID, tokenType, false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}
