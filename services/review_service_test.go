package services

import (
	"testing"

	"article-review-api/apperrors"
	"article-review-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_Create(t *testing.T) {
	t.Run("succeeds only against an accepted article", func(t *testing.T) {
		statuses := []struct {
			status models.ArticleStatus
			ok     bool
		}{
			{models.ArticleDraft, false},
			{models.ArticlePending, false},
			{models.ArticleAccepted, true},
			{models.ArticleSubmitted, false},
			{models.ArticleNeedsRevision, false},
			{models.ArticleRejected, false},
		}

		for _, tc := range statuses {
			t.Run(string(tc.status), func(t *testing.T) {
				env := newTestEnv(t)
				article := env.seedArticle(t, env.author.UserID, tc.status)

				review, err := env.reviews.Create(env.reviewer.UserID, models.RoleReviewer, CreateReviewInput{
					ArticleID:      article.ArticleID,
					Recommendation: models.RecommendAccept,
				})
				if !tc.ok {
					require.ErrorIs(t, err, apperrors.ErrConflict)
					assert.Equal(t, tc.status, env.articleStatus(t, article.ArticleID))
					return
				}
				require.NoError(t, err)
				assert.Equal(t, models.ReviewDraft, review.Status)
				assert.Equal(t, env.reviewer.UserID, review.ReviewerID)
				assert.Equal(t, models.ArticleSubmitted, env.articleStatus(t, article.ArticleID))
			})
		}
	})

	t.Run("author role is refused", func(t *testing.T) {
		env := newTestEnv(t)
		article := env.seedArticle(t, env.author.UserID, models.ArticleAccepted)

		_, err := env.reviews.Create(env.author.UserID, models.RoleAuthor, CreateReviewInput{ArticleID: article.ArticleID})
		require.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("non-positive article id", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.reviews.Create(env.reviewer.UserID, models.RoleReviewer, CreateReviewInput{ArticleID: 0})
		require.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("unresolvable reviewer", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.reviews.Create(0, models.RoleReviewer, CreateReviewInput{ArticleID: 1})
		require.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("missing article", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.reviews.Create(env.reviewer.UserID, models.RoleReviewer, CreateReviewInput{ArticleID: 99999})
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestReviewService_Submit_RecommendationOutcomes(t *testing.T) {
	testCases := []struct {
		recommendation models.Recommendation
		expected       models.ArticleStatus
	}{
		{models.RecommendAccept, models.ArticleAccepted},
		{models.RecommendMinorRevisions, models.ArticleNeedsRevision},
		{models.RecommendMajorRevisions, models.ArticleNeedsRevision},
		{models.RecommendReject, models.ArticleRejected},
		{models.Recommendation("Maybe"), models.ArticleSubmitted},
		{models.Recommendation(""), models.ArticleSubmitted},
	}

	for _, tc := range testCases {
		t.Run(string(tc.recommendation), func(t *testing.T) {
			env := newTestEnv(t)
			article := env.seedArticle(t, env.author.UserID, models.ArticleAccepted)
			review, err := env.reviews.Create(env.reviewer.UserID, models.RoleReviewer, CreateReviewInput{
				ArticleID:      article.ArticleID,
				Recommendation: tc.recommendation,
			})
			require.NoError(t, err)

			submitted, err := env.reviews.Submit(review.ReviewID)
			require.NoError(t, err)
			assert.Equal(t, models.ReviewSubmitted, submitted.Status)
			require.NotNil(t, submitted.SubmittedAt)
			assert.Equal(t, tc.expected, env.articleStatus(t, article.ArticleID))
		})
	}
}

func TestReviewService_Submit_Twice(t *testing.T) {
	env := newTestEnv(t)
	article := env.seedArticle(t, env.author.UserID, models.ArticleAccepted)
	review, err := env.reviews.Create(env.reviewer.UserID, models.RoleReviewer, CreateReviewInput{
		ArticleID:      article.ArticleID,
		Recommendation: models.RecommendReject,
	})
	require.NoError(t, err)

	_, err = env.reviews.Submit(review.ReviewID)
	require.NoError(t, err)
	assert.Equal(t, models.ArticleRejected, env.articleStatus(t, article.ArticleID))

	// Re-running must not silently succeed or re-derive the article status.
	_, err = env.reviews.Submit(review.ReviewID)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, models.ArticleRejected, env.articleStatus(t, article.ArticleID))
}

func TestReviewService_Submit_MissingReview(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.reviews.Submit(99999)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReviewService_Delete(t *testing.T) {
	env := newTestEnv(t)
	article := env.seedArticle(t, env.author.UserID, models.ArticleAccepted)
	review, err := env.reviews.Create(env.reviewer.UserID, models.RoleReviewer, CreateReviewInput{
		ArticleID:      article.ArticleID,
		Recommendation: models.RecommendAccept,
	})
	require.NoError(t, err)

	t.Run("reviewer is refused", func(t *testing.T) {
		err := env.reviews.Delete(review.ReviewID, models.RoleReviewer)
		require.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("admin deletes and article reopens", func(t *testing.T) {
		err := env.reviews.Delete(review.ReviewID, models.RoleAdmin)
		require.NoError(t, err)

		_, err = env.store.Reviews().FindByID(review.ReviewID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Equal(t, models.ArticlePending, env.articleStatus(t, article.ArticleID))
	})

	t.Run("missing review", func(t *testing.T) {
		err := env.reviews.Delete(99999, models.RoleAdmin)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestReviewService_Projections(t *testing.T) {
	env := newTestEnv(t)
	article := env.seedArticle(t, env.author.UserID, models.ArticleAccepted)
	review, err := env.reviews.Create(env.reviewer.UserID, models.RoleReviewer, CreateReviewInput{
		ArticleID:            article.ArticleID,
		Recommendation:       models.RecommendMinorRevisions,
		CommentsToAuthors:    "tighten section 3",
		ConfidentialComments: "weak methodology, do not fast-track",
	})
	require.NoError(t, err)
	_, err = env.reviews.Submit(review.ReviewID)
	require.NoError(t, err)

	t.Run("author view never carries confidential comments", func(t *testing.T) {
		projected, err := env.reviews.ListForArticle(article.ArticleID, env.author.UserID, models.RoleAuthor)
		require.NoError(t, err)

		responses, ok := projected.([]ReviewResponse)
		require.True(t, ok, "author must receive the author-safe shape")
		require.Len(t, responses, 1)
		assert.Equal(t, "tighten section 3", responses[0].CommentsToAuthors)
	})

	t.Run("privileged view includes confidential comments and reviewer", func(t *testing.T) {
		projected, err := env.reviews.ListForArticle(article.ArticleID, env.admin.UserID, models.RoleAdmin)
		require.NoError(t, err)

		responses, ok := projected.([]CompletedReviewResponse)
		require.True(t, ok)
		require.Len(t, responses, 1)
		assert.Equal(t, "weak methodology, do not fast-track", responses[0].ConfidentialComments)
		assert.Equal(t, env.reviewer.UserID, responses[0].ReviewerID)
	})

	t.Run("unrelated author is refused", func(t *testing.T) {
		other := env.seedUser(t, models.RoleAuthor)
		_, err := env.reviews.ListForArticle(article.ArticleID, other.UserID, models.RoleAuthor)
		require.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("completed listing joins article and author", func(t *testing.T) {
		completed, err := env.reviews.ListCompletedByReviewer(env.reviewer.UserID)
		require.NoError(t, err)
		require.Len(t, completed, 1)
		require.NotNil(t, completed[0].Article)
		require.NotNil(t, completed[0].Article.Author)
		assert.Equal(t, env.author.UserID, completed[0].Article.Author.UserID)
	})
}
