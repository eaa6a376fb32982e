package models

import (
	"time"
)

// ReviewStatus is the review record lifecycle.
type ReviewStatus string

const (
	ReviewDraft     ReviewStatus = "Draft"
	ReviewSubmitted ReviewStatus = "Submitted"
)

// Recommendation is a reviewer's terminal verdict on an article.
type Recommendation string

const (
	RecommendAccept         Recommendation = "Accept"
	RecommendMinorRevisions Recommendation = "AcceptWithMinorRevisions"
	RecommendMajorRevisions Recommendation = "AcceptWithMajorRevisions"
	RecommendReject         Recommendation = "Reject"
)

// ArticleOutcome maps a recommendation to the article status it produces on
// review submission. ok is false for unrecognized values, which leave the
// article status unchanged.
func (r Recommendation) ArticleOutcome() (status ArticleStatus, ok bool) {
	switch r {
	case RecommendAccept:
		return ArticleAccepted, true
	case RecommendMinorRevisions, RecommendMajorRevisions:
		return ArticleNeedsRevision, true
	case RecommendReject:
		return ArticleRejected, true
	}
	return "", false
}

type Review struct {
	ReviewID             int            `gorm:"primaryKey;column:review_id" json:"review_id"`
	ArticleID            int            `gorm:"column:article_id" json:"article_id"`
	ReviewerID           int            `gorm:"column:reviewer_id" json:"reviewer_id"`
	Status               ReviewStatus   `gorm:"column:status" json:"status"`
	Rating               *int           `gorm:"column:rating" json:"rating,omitempty"`
	Recommendation       Recommendation `gorm:"column:recommendation" json:"recommendation"`
	TechnicalMerit       string         `gorm:"column:technical_merit" json:"technical_merit"`
	Originality          string         `gorm:"column:originality" json:"originality"`
	PresentationQuality  string         `gorm:"column:presentation_quality" json:"presentation_quality"`
	CommentsToAuthors    string         `gorm:"column:comments_to_authors" json:"comments_to_authors"`
	ConfidentialComments string         `gorm:"column:confidential_comments" json:"confidential_comments"`
	CreateAt             time.Time      `gorm:"column:create_at" json:"create_at"`
	SubmittedAt          *time.Time     `gorm:"column:submitted_at" json:"submitted_at,omitempty"`

	Article  *Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	Reviewer *User    `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
