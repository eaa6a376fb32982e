package services

import (
	"fmt"
	"testing"
	"time"

	"article-review-api/models"
	"article-review-api/repository"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store    *repository.MemoryStore
	articles *ArticleService
	reviews  *ReviewService
	requests *ReviewRequestService
	users    *UserService

	author   *models.User
	reviewer *models.User
	admin    *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repository.NewMemoryStore()
	articles := NewArticleService(store)

	env := &testEnv{
		store:    store,
		articles: articles,
		reviews:  NewReviewService(store),
		requests: NewReviewRequestService(store, articles),
		users:    NewUserService(store),
	}

	env.author = env.seedUser(t, models.RoleAuthor)
	env.reviewer = env.seedUser(t, models.RoleReviewer)
	env.admin = env.seedUser(t, models.RoleAdmin)

	return env
}

func (e *testEnv) seedUser(t *testing.T, role models.Role) *models.User {
	t.Helper()

	now := time.Now()
	user := &models.User{
		Email:     fmt.Sprintf("%s-%d@example.org", role, now.UnixNano()),
		Password:  "not-a-real-hash",
		FirstName: string(role),
		LastName:  "User",
		Role:      role,
		Status:    models.UserActive,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	require.NoError(t, e.store.Users().Create(user))
	return user
}

func (e *testEnv) seedArticle(t *testing.T, authorID int, status models.ArticleStatus) *models.Article {
	t.Helper()

	now := time.Now()
	article := &models.Article{
		Title:    "Deep Learning for Peer Review",
		Content:  "full text",
		Category: "Machine Learning",
		Tags:     []string{"ml", "reviews"},
		Status:   status,
		AuthorID: authorID,
		CreateAt: now,
		UpdateAt: now,
	}
	require.NoError(t, e.store.Articles().Create(article))
	return article
}

func (e *testEnv) seedRequest(t *testing.T, articleID int, reviewerID *int, status models.RequestStatus) *models.ReviewRequest {
	t.Helper()

	request := &models.ReviewRequest{
		ArticleID:   articleID,
		ReviewerID:  reviewerID,
		Status:      status,
		RequestDate: time.Now(),
	}
	require.NoError(t, e.store.ReviewRequests().Create(request))
	return request
}

func (e *testEnv) articleStatus(t *testing.T, articleID int) models.ArticleStatus {
	t.Helper()

	article, err := e.store.Articles().FindByID(articleID)
	require.NoError(t, err)
	return article.Status
}
