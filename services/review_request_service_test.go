package services

import (
	"sync"
	"testing"
	"time"

	"article-review-api/apperrors"
	"article-review-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRequestService_Create(t *testing.T) {
	env := newTestEnv(t)
	article := env.seedArticle(t, env.author.UserID, models.ArticlePending)

	t.Run("reviewer is refused", func(t *testing.T) {
		_, err := env.requests.Create(models.RoleReviewer, CreateRequestInput{ArticleID: article.ArticleID})
		require.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("missing article", func(t *testing.T) {
		_, err := env.requests.Create(models.RoleAdmin, CreateRequestInput{ArticleID: 99999})
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("author cannot be the assignee", func(t *testing.T) {
		authorID := env.author.UserID
		_, err := env.requests.Create(models.RoleAdmin, CreateRequestInput{
			ArticleID:  article.ArticleID,
			ReviewerID: &authorID,
		})
		require.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("unassigned pool request", func(t *testing.T) {
		due := time.Now().Add(14 * 24 * time.Hour)
		pages := 12
		request, err := env.requests.Create(models.RoleAdmin, CreateRequestInput{
			ArticleID: article.ArticleID,
			DueDate:   &due,
			Pages:     &pages,
		})
		require.NoError(t, err)
		assert.Equal(t, models.RequestPending, request.Status)
		assert.Nil(t, request.ReviewerID)
	})

	t.Run("assigned request", func(t *testing.T) {
		reviewerID := env.reviewer.UserID
		request, err := env.requests.Create(models.RoleAdmin, CreateRequestInput{
			ArticleID:  article.ArticleID,
			ReviewerID: &reviewerID,
		})
		require.NoError(t, err)
		require.NotNil(t, request.ReviewerID)
		assert.Equal(t, reviewerID, *request.ReviewerID)
	})
}

func TestReviewRequestService_ListOpen(t *testing.T) {
	env := newTestEnv(t)
	other := env.seedUser(t, models.RoleReviewer)
	article := env.seedArticle(t, env.author.UserID, models.ArticlePending)

	pool := env.seedRequest(t, article.ArticleID, nil, models.RequestPending)
	mineID := env.reviewer.UserID
	mine := env.seedRequest(t, article.ArticleID, &mineID, models.RequestPending)
	otherID := other.UserID
	env.seedRequest(t, article.ArticleID, &otherID, models.RequestPending)
	env.seedRequest(t, article.ArticleID, &mineID, models.RequestDeclined)

	open, err := env.requests.ListOpen(env.reviewer.UserID)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, pool.RequestID, open[0].RequestID)
	assert.Equal(t, mine.RequestID, open[1].RequestID)
}

func TestReviewRequestService_Accept(t *testing.T) {
	t.Run("claims the pool request and accepts the article", func(t *testing.T) {
		env := newTestEnv(t)
		article := env.seedArticle(t, env.author.UserID, models.ArticlePending)
		request := env.seedRequest(t, article.ArticleID, nil, models.RequestPending)

		accepted, err := env.requests.Accept(request.RequestID, env.reviewer.UserID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestAccepted, accepted.Status)
		require.NotNil(t, accepted.ReviewerID)
		assert.Equal(t, env.reviewer.UserID, *accepted.ReviewerID)
		assert.Equal(t, models.ArticleAccepted, env.articleStatus(t, article.ArticleID))

		inProgress, err := env.requests.ListInProgress(env.reviewer.UserID)
		require.NoError(t, err)
		require.Len(t, inProgress, 1)
		assert.Equal(t, request.RequestID, inProgress[0].RequestID)
	})

	t.Run("request assigned to another reviewer is refused", func(t *testing.T) {
		env := newTestEnv(t)
		other := env.seedUser(t, models.RoleReviewer)
		article := env.seedArticle(t, env.author.UserID, models.ArticlePending)
		otherID := other.UserID
		request := env.seedRequest(t, article.ArticleID, &otherID, models.RequestPending)

		_, err := env.requests.Accept(request.RequestID, env.reviewer.UserID)
		require.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("declined request conflicts", func(t *testing.T) {
		env := newTestEnv(t)
		article := env.seedArticle(t, env.author.UserID, models.ArticlePending)
		request := env.seedRequest(t, article.ArticleID, nil, models.RequestDeclined)

		_, err := env.requests.Accept(request.RequestID, env.reviewer.UserID)
		require.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("missing request", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.requests.Accept(99999, env.reviewer.UserID)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestReviewRequestService_Accept_Race(t *testing.T) {
	env := newTestEnv(t)
	second := env.seedUser(t, models.RoleReviewer)
	article := env.seedArticle(t, env.author.UserID, models.ArticlePending)
	request := env.seedRequest(t, article.ArticleID, nil, models.RequestPending)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i, reviewerID := range []int{env.reviewer.UserID, second.UserID} {
		go func(i, reviewerID int) {
			defer wg.Done()
			_, errs[i] = env.requests.Accept(request.RequestID, reviewerID)
		}(i, reviewerID)
	}
	wg.Wait()

	// Exactly one claim wins; the loser observes a conflict.
	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, apperrors.ErrConflict)
		}
	}
	assert.Equal(t, 1, winners)

	claimed, err := env.store.ReviewRequests().FindByID(request.RequestID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, claimed.Status)
	require.NotNil(t, claimed.ReviewerID)
	assert.Contains(t, []int{env.reviewer.UserID, second.UserID}, *claimed.ReviewerID)
}

func TestReviewRequestService_Decline(t *testing.T) {
	env := newTestEnv(t)
	article := env.seedArticle(t, env.author.UserID, models.ArticlePending)
	request := env.seedRequest(t, article.ArticleID, nil, models.RequestPending)

	declined, err := env.requests.Decline(request.RequestID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestDeclined, declined.Status)

	// The article stays available to other reviewers.
	assert.Equal(t, models.ArticlePending, env.articleStatus(t, article.ArticleID))

	// Declined is terminal.
	_, err = env.requests.Decline(request.RequestID)
	require.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = env.requests.Accept(request.RequestID, env.reviewer.UserID)
	require.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = env.requests.Decline(99999)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
