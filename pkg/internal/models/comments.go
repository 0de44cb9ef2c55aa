package models

import "time"

type Comment struct {
	BaseModel

	PostID uint `json:"post_id" gorm:"index"`
	Post   Post `json:"post"`

	// Nil once the author account has been erased.
	AccountID *uint `json:"account_id"`

	Text       string  `json:"text" validate:"max=4096"`
	Attachment *string `json:"attachment"`
}

// CommentUnread marks a comment a subscriber has not viewed yet. The post id
// is carried redundantly so notification grouping and mark-read never join
// through comments.
type CommentUnread struct {
	CommentID uint      `json:"comment_id" gorm:"primaryKey"`
	AccountID uint      `json:"account_id" gorm:"primaryKey;index"`
	PostID    uint      `json:"post_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}
