package models

const (
	FlagKindPost    = "post"
	FlagKindComment = "comment"
)

const (
	FlagStatusPending = iota
	FlagStatusRejected
	FlagStatusAccepted
)

// Flag reports either a post or a comment, discriminated by Kind.
type Flag struct {
	BaseModel

	Kind      string `json:"kind" gorm:"uniqueIndex:idx_flags_target"`
	PostID    *uint  `json:"post_id" gorm:"uniqueIndex:idx_flags_target"`
	CommentID *uint  `json:"comment_id" gorm:"uniqueIndex:idx_flags_target"`

	// Reporter of the flag.
	AccountID uint `json:"account_id"`
	// Author of the flagged object at flag time, kept so moderation still
	// knows who to act on after the object is gone.
	TargetAccountID *uint `json:"target_account_id"`
	// Handler that resolved the flag, nil while pending.
	HandlerID *uint `json:"handler_id"`

	Status int `json:"status"`
}
