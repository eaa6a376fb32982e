package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"testing"
	"time"

	"article-review-api/middleware"
	"article-review-api/models"
	"article-review-api/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the handlers under test against a fresh in-memory
// store, mirroring the production route layout.
func newTestRouter(t *testing.T) (*gin.Engine, *repository.MemoryStore) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	Init(store)

	router := gin.New()
	v1 := router.Group("/api/v1")

	v1.POST("/auth/register", Register)
	v1.POST("/auth/login", Login)
	v1.POST("/auth/forgot-password", ForgotPassword)
	v1.POST("/auth/reset-password", ResetPassword)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(store))
	protected.GET("/auth/profile", GetProfile)
	protected.PUT("/auth/change-password", ChangePassword)
	protected.POST("/articles", middleware.RequireRole(models.RoleAuthor), CreateArticle)
	protected.GET("/articles/my", middleware.RequireRole(models.RoleAuthor), GetMyArticles)
	protected.GET("/articles/:id", GetArticle)
	protected.PUT("/articles/:id/submit", middleware.RequireRole(models.RoleAuthor), SubmitArticle)
	protected.DELETE("/articles/:id", DeleteArticle)
	protected.POST("/admin/reviewrequests", middleware.RequireRole(models.RoleAdmin), CreateReviewRequest)
	protected.GET("/users", middleware.RequireRole(models.RoleAdmin), GetUsers)

	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// newManuscriptRequest builds a multipart article creation request with an
// attached file carrying an explicit part content type.
func newManuscriptRequest(t *testing.T, token, title, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("title", title))

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func registerAndLogin(t *testing.T, router *gin.Engine, email string, role models.Role) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      email,
		"password":   "password123",
		"first_name": "Test",
		"last_name":  "User",
		"role":       role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterLoginProfile(t *testing.T) {
	router, _ := newTestRouter(t)

	token := registerAndLogin(t, router, "author@example.com", models.RoleAuthor)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "author@example.com", resp.User.Email)
	assert.Equal(t, models.RoleAuthor, resp.User.Role)

	// Password hash must never appear in responses.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      "sneaky@example.com",
		"password":   "password123",
		"first_name": "Sneaky",
		"last_name":  "User",
		"role":       models.RoleAdmin,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router, "author@example.com", models.RoleAuthor)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "author@example.com",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestArticleLifecycleOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "author@example.com", models.RoleAuthor)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/articles", token, gin.H{
		"title":    "Tests as Documentation",
		"content":  "Body",
		"category": "Engineering",
		"tags":     []string{"testing"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Article models.Article `json:"article"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.ArticleDraft, created.Article.Status)

	rec = doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/v1/articles/%d/submit", created.Article.ArticleID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var submitted struct {
		Article models.Article `json:"article"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	assert.Equal(t, models.ArticlePending, submitted.Article.Status)
	assert.NotNil(t, submitted.Article.SubmittedDate)

	// Resubmitting a pending article conflicts.
	rec = doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/v1/articles/%d/submit", created.Article.ArticleID), token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/articles/my", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Articles []models.Article `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Len(t, listing.Articles, 1)
}

func TestCreateArticle_RejectedManuscriptLeavesNoDraft(t *testing.T) {
	router, store := newTestRouter(t)
	t.Setenv("UPLOAD_PATH", t.TempDir())
	token := registerAndLogin(t, router, "author@example.com", models.RoleAuthor)

	req := newManuscriptRequest(t, token, "Weak Signals", "payload.exe", "application/octet-stream", []byte("MZ"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "file type not allowed")

	user, err := store.Users().FindByEmail("author@example.com")
	require.NoError(t, err)
	articles, err := store.Articles().ListByAuthor(user.UserID)
	require.NoError(t, err)
	assert.Empty(t, articles, "rejected upload must not leave a draft behind")
}

func TestCreateArticle_WithManuscript(t *testing.T) {
	router, store := newTestRouter(t)
	t.Setenv("UPLOAD_PATH", t.TempDir())
	token := registerAndLogin(t, router, "author@example.com", models.RoleAuthor)

	req := newManuscriptRequest(t, token, "Weak Signals", "manuscript.pdf", "application/pdf", []byte("%PDF-1.4"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Article models.Article `json:"article"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.ArticleDraft, created.Article.Status)

	file, err := store.Files().FindLatestByArticle(created.Article.ArticleID)
	require.NoError(t, err)
	assert.Equal(t, "manuscript.pdf", file.OriginalName)
	assert.Equal(t, "application/pdf", file.MimeType)
}

func TestLogin_EmailCaseMismatch(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      "Case.Author@Example.com",
		"password":   "password123",
		"first_name": "Case",
		"last_name":  "Author",
		"role":       models.RoleAuthor,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// The registered casing and any other casing both authenticate.
	for _, email := range []string{"Case.Author@Example.com", "case.author@example.com", "CASE.AUTHOR@EXAMPLE.COM"} {
		rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    email,
			"password": "password123",
		})
		assert.Equal(t, http.StatusOK, rec.Code, email)
	}
}

func TestArticleAccess_OtherAuthorCannotDelete(t *testing.T) {
	router, _ := newTestRouter(t)
	owner := registerAndLogin(t, router, "owner@example.com", models.RoleAuthor)
	other := registerAndLogin(t, router, "other@example.com", models.RoleAuthor)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/articles", owner, gin.H{
		"title": "Mine",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Article models.Article `json:"article"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, http.MethodDelete,
		fmt.Sprintf("/api/v1/articles/%d", created.Article.ArticleID), other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/articles/999", owner, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoleGates(t *testing.T) {
	router, _ := newTestRouter(t)
	reviewer := registerAndLogin(t, router, "reviewer@example.com", models.RoleReviewer)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/articles", reviewer, gin.H{
		"title": "Not Allowed",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/users", reviewer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/admin/reviewrequests", reviewer, gin.H{
		"article_id": 1,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestChangePassword(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "author@example.com", models.RoleAuthor)

	rec := doJSON(t, router, http.MethodPut, "/api/v1/auth/change-password", token, gin.H{
		"current_password": "wrong",
		"new_password":     "newpassword123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/auth/change-password", token, gin.H{
		"current_password": "password123",
		"new_password":     "newpassword123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "author@example.com",
		"password": "newpassword123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router, "author@example.com", models.RoleAuthor)

	var mailedBody string
	originalSend := sendMailFunc
	sendMailFunc = func(to []string, subject, body string) error {
		require.Equal(t, []string{"author@example.com"}, to)
		mailedBody = body
		return nil
	}
	t.Cleanup(func() { sendMailFunc = originalSend })

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/forgot-password", "", gin.H{
		"email": "author@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotEmpty(t, mailedBody)

	tokenPattern := regexp.MustCompile(`token=([0-9a-f-]+)`)
	match := tokenPattern.FindStringSubmatch(mailedBody)
	require.Len(t, match, 2, "reset email must carry the token")
	rawToken := match[1]

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/reset-password", "", gin.H{
		"token":            rawToken,
		"new_password":     "resetpassword1",
		"confirm_password": "resetpassword1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The consumed token is revoked.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/reset-password", "", gin.H{
		"token":            rawToken,
		"new_password":     "resetpassword2",
		"confirm_password": "resetpassword2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "author@example.com",
		"password": "resetpassword1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestForgotPassword_UnknownEmailIsNeutral(t *testing.T) {
	router, _ := newTestRouter(t)

	called := false
	originalSend := sendMailFunc
	sendMailFunc = func(to []string, subject, body string) error {
		called = true
		return nil
	}
	t.Cleanup(func() { sendMailFunc = originalSend })

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/forgot-password", "", gin.H{
		"email": "nobody@example.com",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called, "no email for unknown accounts")
	assert.Contains(t, rec.Body.String(), "If the email exists")
}

func TestBlockedUserCannotLogin(t *testing.T) {
	router, store := newTestRouter(t)
	registerAndLogin(t, router, "author@example.com", models.RoleAuthor)

	user, err := store.Users().FindByEmail("author@example.com")
	require.NoError(t, err)
	now := time.Now()
	user.Status = models.UserBlocked
	user.UpdateAt = &now
	require.NoError(t, store.Users().Update(user))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "author@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
