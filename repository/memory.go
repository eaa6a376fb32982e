package repository

import (
	"sort"
	"sync"
	"time"

	"article-review-api/apperrors"
	"article-review-api/models"
)

// MemoryStore is a DB-free Store used by the workflow tests. Individual
// operations are guarded by one mutex; Atomically runs fn against the same
// store without rollback, which is sufficient for exercising the workflow
// rules.
type MemoryStore struct {
	mu sync.Mutex

	users    map[int]*models.User
	articles map[int]*models.Article
	reviews  map[int]*models.Review
	requests map[int]*models.ReviewRequest
	files    map[int]*models.FileUpload
	tokens   map[int]*models.UserToken

	nextID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int]*models.User),
		articles: make(map[int]*models.Article),
		reviews:  make(map[int]*models.Review),
		requests: make(map[int]*models.ReviewRequest),
		files:    make(map[int]*models.FileUpload),
		tokens:   make(map[int]*models.UserToken),
		nextID:   1,
	}
}

func (s *MemoryStore) Users() UserRepository                   { return &memUserRepo{s} }
func (s *MemoryStore) Articles() ArticleRepository             { return &memArticleRepo{s} }
func (s *MemoryStore) Reviews() ReviewRepository               { return &memReviewRepo{s} }
func (s *MemoryStore) ReviewRequests() ReviewRequestRepository { return &memRequestRepo{s} }
func (s *MemoryStore) Files() FileRepository                   { return &memFileRepo{s} }
func (s *MemoryStore) Tokens() TokenRepository                 { return &memTokenRepo{s} }

func (s *MemoryStore) Atomically(fn func(Store) error) error {
	return fn(s)
}

func (s *MemoryStore) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

type memUserRepo struct {
	s *MemoryStore
}

func (r *memUserRepo) Create(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user.UserID == 0 {
		user.UserID = r.s.allocID()
	}
	clone := *user
	r.s.users[user.UserID] = &clone
	return nil
}

func (r *memUserRepo) FindByID(id int) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok || user.DeleteAt != nil {
		return nil, apperrors.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) FindByEmail(email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email && user.DeleteAt == nil {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) List() ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var users []models.User
	for _, user := range r.s.users {
		if user.DeleteAt == nil {
			users = append(users, *user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}

func (r *memUserRepo) Update(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.UserID]; !ok {
		return apperrors.ErrNotFound
	}
	clone := *user
	r.s.users[user.UserID] = &clone
	return nil
}

func (r *memUserRepo) SoftDelete(id int, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok || user.DeleteAt != nil {
		return apperrors.ErrNotFound
	}
	deleted := now
	user.DeleteAt = &deleted
	user.UpdateAt = &deleted
	return nil
}

func (r *memUserRepo) UpdatePassword(id int, passwordHash string, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok || user.DeleteAt != nil {
		return apperrors.ErrNotFound
	}
	updated := now
	user.Password = passwordHash
	user.UpdateAt = &updated
	return nil
}

type memArticleRepo struct {
	s *MemoryStore
}

func (r *memArticleRepo) Create(article *models.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if article.ArticleID == 0 {
		article.ArticleID = r.s.allocID()
	}
	clone := *article
	clone.Author = nil
	r.s.articles[article.ArticleID] = &clone
	return nil
}

func (r *memArticleRepo) FindByID(id int) (*models.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	article, ok := r.s.articles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *article
	return &clone, nil
}

func (r *memArticleRepo) FindByIDWithAuthor(id int) (*models.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	article, ok := r.s.articles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *article
	if author, ok := r.s.users[article.AuthorID]; ok {
		authorClone := *author
		clone.Author = &authorClone
	}
	return &clone, nil
}

func (r *memArticleRepo) ListByAuthor(authorID int) ([]models.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var articles []models.Article
	for _, article := range r.s.articles {
		if article.AuthorID == authorID {
			articles = append(articles, *article)
		}
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i].ArticleID < articles[j].ArticleID })
	return articles, nil
}

func (r *memArticleRepo) ListAll() ([]models.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var articles []models.Article
	for _, article := range r.s.articles {
		articles = append(articles, *article)
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i].ArticleID < articles[j].ArticleID })
	return articles, nil
}

func (r *memArticleRepo) Update(article *models.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.articles[article.ArticleID]; !ok {
		return apperrors.ErrNotFound
	}
	clone := *article
	clone.Author = nil
	r.s.articles[article.ArticleID] = &clone
	return nil
}

func (r *memArticleRepo) Delete(id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.articles, id)
	return nil
}

type memReviewRepo struct {
	s *MemoryStore
}

func (r *memReviewRepo) Create(review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if review.ReviewID == 0 {
		review.ReviewID = r.s.allocID()
	}
	clone := *review
	clone.Article = nil
	clone.Reviewer = nil
	r.s.reviews[review.ReviewID] = &clone
	return nil
}

func (r *memReviewRepo) FindByID(id int) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	review, ok := r.s.reviews[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *review
	return &clone, nil
}

func (r *memReviewRepo) FindByIDWithRelations(id int) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	review, ok := r.s.reviews[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *review
	r.attach(&clone)
	return &clone, nil
}

// attach fills relations the way the gorm store's Preload does. Caller holds
// the lock.
func (r *memReviewRepo) attach(review *models.Review) {
	if article, ok := r.s.articles[review.ArticleID]; ok {
		articleClone := *article
		if author, ok := r.s.users[article.AuthorID]; ok {
			authorClone := *author
			articleClone.Author = &authorClone
		}
		review.Article = &articleClone
	}
	if reviewer, ok := r.s.users[review.ReviewerID]; ok {
		reviewerClone := *reviewer
		review.Reviewer = &reviewerClone
	}
}

func (r *memReviewRepo) ListSubmittedByReviewer(reviewerID int) ([]models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var reviews []models.Review
	for _, review := range r.s.reviews {
		if review.ReviewerID == reviewerID && review.Status == models.ReviewSubmitted {
			clone := *review
			r.attach(&clone)
			reviews = append(reviews, clone)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ReviewID < reviews[j].ReviewID })
	return reviews, nil
}

func (r *memReviewRepo) ListSubmitted() ([]models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var reviews []models.Review
	for _, review := range r.s.reviews {
		if review.Status == models.ReviewSubmitted {
			clone := *review
			r.attach(&clone)
			reviews = append(reviews, clone)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ReviewID < reviews[j].ReviewID })
	return reviews, nil
}

func (r *memReviewRepo) ListByArticle(articleID int) ([]models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var reviews []models.Review
	for _, review := range r.s.reviews {
		if review.ArticleID == articleID {
			clone := *review
			r.attach(&clone)
			reviews = append(reviews, clone)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ReviewID < reviews[j].ReviewID })
	return reviews, nil
}

func (r *memReviewRepo) Update(review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[review.ReviewID]; !ok {
		return apperrors.ErrNotFound
	}
	clone := *review
	clone.Article = nil
	clone.Reviewer = nil
	r.s.reviews[review.ReviewID] = &clone
	return nil
}

func (r *memReviewRepo) Delete(id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.reviews, id)
	return nil
}

func (r *memReviewRepo) DeleteByArticle(articleID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, review := range r.s.reviews {
		if review.ArticleID == articleID {
			delete(r.s.reviews, id)
		}
	}
	return nil
}

type memRequestRepo struct {
	s *MemoryStore
}

func (r *memRequestRepo) Create(request *models.ReviewRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if request.RequestID == 0 {
		request.RequestID = r.s.allocID()
	}
	clone := *request
	clone.Article = nil
	clone.Reviewer = nil
	r.s.requests[request.RequestID] = &clone
	return nil
}

func (r *memRequestRepo) FindByID(id int) (*models.ReviewRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	request, ok := r.s.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *request
	return &clone, nil
}

func (r *memRequestRepo) ListOpenFor(reviewerID int) ([]models.ReviewRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var requests []models.ReviewRequest
	for _, request := range r.s.requests {
		if request.Status != models.RequestPending {
			continue
		}
		if request.ReviewerID == nil || *request.ReviewerID == reviewerID {
			requests = append(requests, *request)
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].RequestID < requests[j].RequestID })
	return requests, nil
}

func (r *memRequestRepo) ListAcceptedBy(reviewerID int) ([]models.ReviewRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var requests []models.ReviewRequest
	for _, request := range r.s.requests {
		if request.Status == models.RequestAccepted && request.ReviewerID != nil && *request.ReviewerID == reviewerID {
			requests = append(requests, *request)
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].RequestID < requests[j].RequestID })
	return requests, nil
}

func (r *memRequestRepo) Claim(requestID, reviewerID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	request, ok := r.s.requests[requestID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if request.Status != models.RequestPending {
		return apperrors.ErrConflict
	}
	if request.ReviewerID != nil && *request.ReviewerID != reviewerID {
		return apperrors.ErrConflict
	}
	claimant := reviewerID
	request.ReviewerID = &claimant
	request.Status = models.RequestAccepted
	return nil
}

func (r *memRequestRepo) Decline(requestID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	request, ok := r.s.requests[requestID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if request.Status != models.RequestPending {
		return apperrors.ErrConflict
	}
	request.Status = models.RequestDeclined
	return nil
}

func (r *memRequestRepo) DeleteByArticle(articleID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, request := range r.s.requests {
		if request.ArticleID == articleID {
			delete(r.s.requests, id)
		}
	}
	return nil
}

type memFileRepo struct {
	s *MemoryStore
}

func (r *memFileRepo) Create(file *models.FileUpload) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if file.FileID == 0 {
		file.FileID = r.s.allocID()
	}
	clone := *file
	r.s.files[file.FileID] = &clone
	return nil
}

func (r *memFileRepo) FindLatestByArticle(articleID int) (*models.FileUpload, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *models.FileUpload
	for _, file := range r.s.files {
		if file.ArticleID != articleID {
			continue
		}
		if latest == nil || file.FileID > latest.FileID {
			latest = file
		}
	}
	if latest == nil {
		return nil, apperrors.ErrNotFound
	}
	clone := *latest
	return &clone, nil
}

func (r *memFileRepo) DeleteByArticle(articleID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, file := range r.s.files {
		if file.ArticleID == articleID {
			delete(r.s.files, id)
		}
	}
	return nil
}

type memTokenRepo struct {
	s *MemoryStore
}

func (r *memTokenRepo) Create(token *models.UserToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if token.TokenID == 0 {
		token.TokenID = r.s.allocID()
	}
	clone := *token
	r.s.tokens[token.TokenID] = &clone
	return nil
}

func (r *memTokenRepo) ListActiveByType(tokenType string, now time.Time) ([]models.UserToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var tokens []models.UserToken
	for _, token := range r.s.tokens {
		if token.TokenType == tokenType && !token.IsRevoked && token.ExpiresAt.After(now) {
			tokens = append(tokens, *token)
		}
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].CreatedAt.After(tokens[j].CreatedAt) })
	return tokens, nil
}

func (r *memTokenRepo) Revoke(tokenID int, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token, ok := r.s.tokens[tokenID]
	if !ok {
		return apperrors.ErrNotFound
	}
	token.IsRevoked = true
	token.UpdatedAt = now
	token.ExpiresAt = now
	return nil
}

func (r *memTokenRepo) RevokeAllForUser(userID int, tokenType string, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, token := range r.s.tokens {
		if token.UserID == userID && token.TokenType == tokenType && !token.IsRevoked {
			token.IsRevoked = true
			token.UpdatedAt = now
			token.ExpiresAt = now
		}
	}
	return nil
}
