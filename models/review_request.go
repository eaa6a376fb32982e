package models

import (
	"time"
)

// RequestStatus is the review request lifecycle. Once a request leaves
// Pending it never returns to it.
type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestAccepted RequestStatus = "Accepted"
	RequestDeclined RequestStatus = "Declined"
)

type ReviewRequest struct {
	RequestID    int           `gorm:"primaryKey;column:request_id" json:"request_id"`
	ArticleID    int           `gorm:"column:article_id" json:"article_id"`
	ReviewerID   *int          `gorm:"column:reviewer_id" json:"reviewer_id,omitempty"`
	Status       RequestStatus `gorm:"column:status" json:"status"`
	RequestDate  time.Time     `gorm:"column:request_date" json:"request_date"`
	DueDate      *time.Time    `gorm:"column:due_date" json:"due_date,omitempty"`
	ExpectedTime *string       `gorm:"column:expected_time" json:"expected_time,omitempty"`
	Pages        *int          `gorm:"column:pages" json:"pages,omitempty"`

	Article  *Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	Reviewer *User    `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (ReviewRequest) TableName() string {
	return "review_requests"
}
