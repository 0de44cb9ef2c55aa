package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// MaxPostImages bounds the additional captioned image set of one post.
// The head image does not count against it.
const MaxPostImages = 4

// ActivityWindow is how long a published post stays eligible for stack
// distribution, measured from its publish time.
const ActivityWindow = 30 * 24 * time.Hour

type Post struct {
	BaseModel

	AreaID uint `json:"area_id" gorm:"index"`
	Area   Area `json:"area"`

	// Nil once the author account has been erased. The post itself stays.
	AccountID *uint `json:"account_id" gorm:"index"`
	// Hides the author at display time. Independent from AccountID being nil.
	Anonym bool `json:"anonym"`

	// Random 8-digit component of the URI key, so post IDs cannot be walked.
	Nonce int `json:"-"`

	Text     string  `json:"text" validate:"max=4096"`
	Language string  `json:"language"`
	Head     *string `json:"head_image"`

	Images datatypes.JSONSlice[PostImage] `json:"images"`

	IsDraft     bool       `json:"is_draft" gorm:"index"`
	PublishedAt *time.Time `json:"published_at"`

	// Remaining slots available for random distribution to new reviewers.
	// Mutated only through the conditional updates in the stack services.
	StackOutstanding int `json:"stack_outstanding"`

	Comments []Comment `json:"comments" gorm:"foreignKey:PostID"`
}

type PostImage struct {
	Num        int    `json:"num"`
	Attachment string `json:"attachment"`
	Caption    string `json:"caption"`
}

// URIKey returns the external identifier of the post (nonce + id).
func (v Post) URIKey() string {
	return fmt.Sprintf("%d%d", v.Nonce, v.ID)
}

// IsActive reports whether the post is inside its distribution window.
func (v Post) IsActive(now time.Time) bool {
	if v.IsDraft || v.PublishedAt == nil {
		return false
	}
	return now.Sub(*v.PublishedAt) < ActivityWindow
}

// PostAssignment marks a post as currently sitting in one user's stack.
type PostAssignment struct {
	PostID    uint      `json:"post_id" gorm:"primaryKey"`
	AccountID uint      `json:"account_id" gorm:"primaryKey;index"`
	CreatedAt time.Time `json:"created_at"`
}

// PostReceipt marks a post as already served to one user, whether it got
// spread or skipped. Receipted posts are never issued to that user again.
type PostReceipt struct {
	PostID    uint      `json:"post_id" gorm:"primaryKey"`
	AccountID uint      `json:"account_id" gorm:"primaryKey;index"`
	CreatedAt time.Time `json:"created_at"`
}

// PostSubscriber records who gets unread markers when the post is commented.
type PostSubscriber struct {
	PostID    uint      `json:"post_id" gorm:"primaryKey"`
	AccountID uint      `json:"account_id" gorm:"primaryKey;index"`
	CreatedAt time.Time `json:"created_at"`
}
