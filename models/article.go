package models

import (
	"time"
)

// ArticleStatus is the closed set of article lifecycle states.
type ArticleStatus string

const (
	ArticleDraft         ArticleStatus = "Draft"
	ArticlePending       ArticleStatus = "Pending"
	ArticleAccepted      ArticleStatus = "Accepted"
	ArticleSubmitted     ArticleStatus = "Submitted"
	ArticleNeedsRevision ArticleStatus = "NeedsRevision"
	ArticleRejected      ArticleStatus = "Rejected"
)

type Article struct {
	ArticleID     int           `gorm:"primaryKey;column:article_id" json:"article_id"`
	Title         string        `gorm:"column:title" json:"title"`
	Content       string        `gorm:"column:content" json:"content"`
	Category      string        `gorm:"column:category" json:"category"`
	Tags          []string      `gorm:"column:tags;serializer:json" json:"tags"`
	Status        ArticleStatus `gorm:"column:status" json:"status"`
	AuthorID      int           `gorm:"column:author_id" json:"author_id"`
	SubmittedDate *time.Time    `gorm:"column:submitted_date" json:"submitted_date,omitempty"`
	CreateAt      time.Time     `gorm:"column:create_at" json:"create_at"`
	UpdateAt      time.Time     `gorm:"column:update_at" json:"update_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Article) TableName() string {
	return "articles"
}

// FileUpload is the stored manuscript file attached to an article.
type FileUpload struct {
	FileID       int       `gorm:"primaryKey;column:file_id" json:"file_id"`
	ArticleID    int       `gorm:"column:article_id" json:"article_id"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	StoredPath   string    `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64     `gorm:"column:file_size" json:"file_size"`
	MimeType     string    `gorm:"column:mime_type" json:"mime_type"`
	UploadedBy   int       `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

func (FileUpload) TableName() string {
	return "file_uploads"
}

// IsValidDocumentType restricts manuscript uploads to document formats.
func (f *FileUpload) IsValidDocumentType() bool {
	validTypes := []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
	}
	for _, validType := range validTypes {
		if f.MimeType == validType {
			return true
		}
	}
	return false
}
