package controllers

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"article-review-api/apperrors"
	"article-review-api/middleware"
	"article-review-api/models"
	"article-review-api/services"
	"article-review-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxManuscriptSize = 10 * 1024 * 1024 // 10MB

type ArticleCreateRequest struct {
	Title    string   `json:"title" form:"title" binding:"required"`
	Content  string   `json:"content" form:"content"`
	Category string   `json:"category" form:"category"`
	Tags     []string `json:"tags" form:"tags"`
}

// CreateArticle creates a Draft article. Accepts plain JSON or multipart
// form data with an optional manuscript file.
func CreateArticle(c *gin.Context) {
	userID, role := middleware.CallerIdentity(c)

	var req ArticleCreateRequest
	var manuscript *multipart.FileHeader
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// An attached manuscript is validated up front so a rejected file
		// leaves no article behind.
		if _, header, ferr := c.Request.FormFile("file"); ferr == nil {
			if err := validateManuscript(header); err != nil {
				respondError(c, err)
				return
			}
			manuscript = header
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	article, err := articleService.Create(userID, role, services.CreateArticleInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if manuscript != nil {
		if err := storeManuscript(c, manuscript, article.ArticleID, userID, role); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"article": article,
		"message": "Article created successfully",
	})
}

// GetMyArticles lists the caller's own articles.
func GetMyArticles(c *gin.Context) {
	userID, _ := middleware.CallerIdentity(c)

	articles, err := articleService.ListByAuthor(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GetArticle returns one article with its author.
func GetArticle(c *gin.Context) {
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	article, err := articleService.Get(articleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"article": article})
}

// SubmitArticle moves the caller's Draft or NeedsRevision article to Pending.
func SubmitArticle(c *gin.Context) {
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	userID, _ := middleware.CallerIdentity(c)

	article, err := articleService.Submit(articleID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"article": article,
		"message": "Article submitted for review",
	})
}

// DeleteArticle cascade-deletes an article; the owning author or an admin
// may call it. Stored files are unlinked after the transaction commits.
func DeleteArticle(c *gin.Context) {
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	userID, role := middleware.CallerIdentity(c)

	stalePaths, err := articleService.Delete(articleID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	removeStoredFiles(stalePaths)

	c.JSON(http.StatusOK, gin.H{"message": "Article deleted successfully"})
}

// DownloadArticle streams the latest manuscript file for an article.
func DownloadArticle(c *gin.Context) {
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	file, err := articleService.Manuscript(articleID)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := os.Stat(file.StoredPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stored file is missing"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.OriginalName))
	c.Header("Content-Type", file.MimeType)
	c.File(file.StoredPath)
}

// UploadManuscript attaches a manuscript file to an existing article.
func UploadManuscript(c *gin.Context) {
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	userID, role := middleware.CallerIdentity(c)

	_, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	if err := storeManuscript(c, header, articleID, userID, role); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "File uploaded successfully"})
}

// GetArticleReviews lists reviews for an article. The owning author gets the
// author-safe projection of submitted reviews; reviewers and admins get the
// full projection.
func GetArticleReviews(c *gin.Context) {
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	userID, role := middleware.CallerIdentity(c)

	reviews, err := reviewService.ListForArticle(articleID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func validateManuscript(header *multipart.FileHeader) error {
	upload := models.FileUpload{MimeType: header.Header.Get("Content-Type")}
	if !upload.IsValidDocumentType() {
		return fmt.Errorf("%w: file type not allowed", apperrors.ErrBadRequest)
	}
	if header.Size > maxManuscriptSize {
		return fmt.Errorf("%w: file size exceeds 10MB limit", apperrors.ErrBadRequest)
	}
	return nil
}

func storeManuscript(c *gin.Context, header *multipart.FileHeader, articleID, userID int, role models.Role) error {
	if err := validateManuscript(header); err != nil {
		return err
	}
	record := models.FileUpload{
		ArticleID:    articleID,
		OriginalName: header.Filename,
		FileSize:     header.Size,
		MimeType:     header.Header.Get("Content-Type"),
		UploadedBy:   userID,
		UploadedAt:   time.Now(),
	}

	uploadDir := filepath.Join(uploadRoot(), "articles", strconv.Itoa(articleID))
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return err
	}

	ext := filepath.Ext(header.Filename)
	base := utils.SanitizeFilename(strings.TrimSuffix(header.Filename, ext))
	storedName := fmt.Sprintf("%s_%s%s", base, uuid.NewString(), ext)
	record.StoredPath = filepath.Join(uploadDir, storedName)

	if err := c.SaveUploadedFile(header, record.StoredPath); err != nil {
		return err
	}

	if err := articleService.RecordUpload(&record, userID, role); err != nil {
		// Keep disk and database consistent when the ownership check fails.
		if rmErr := os.Remove(record.StoredPath); rmErr != nil {
			log.Printf("failed to remove orphaned upload %s: %v", record.StoredPath, rmErr)
		}
		return err
	}
	return nil
}

func removeStoredFiles(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Printf("failed to remove stored file %s: %v", p, err)
		}
	}
}

func uploadRoot() string {
	if root := os.Getenv("UPLOAD_PATH"); root != "" {
		return root
	}
	return "uploads"
}
