package services

import (
	"errors"
	"fmt"

	"github.com/spreadhq/spread/pkg/internal/authz"
	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/models"

	"gorm.io/gorm"
)

// FlagPost files a moderation flag against a post. One flag per target, a
// second report is a conflict.
func FlagPost(post models.Post, user authz.Account) (models.Flag, error) {
	if !authz.O.MayFlag(user) {
		return models.Flag{}, fmt.Errorf("account #%d may not flag: %w", user.ID, ErrForbidden)
	}

	flag := models.Flag{
		Kind:            models.FlagKindPost,
		PostID:          &post.ID,
		AccountID:       user.ID,
		TargetAccountID: post.AccountID,
		Status:          models.FlagStatusPending,
	}
	return saveFlag(flag, "kind = ? AND post_id = ?", models.FlagKindPost, post.ID)
}

// FlagComment files a moderation flag against a comment.
func FlagComment(comment models.Comment, user authz.Account) (models.Flag, error) {
	if !authz.O.MayFlag(user) {
		return models.Flag{}, fmt.Errorf("account #%d may not flag: %w", user.ID, ErrForbidden)
	}

	flag := models.Flag{
		Kind:            models.FlagKindComment,
		CommentID:       &comment.ID,
		AccountID:       user.ID,
		TargetAccountID: comment.AccountID,
		Status:          models.FlagStatusPending,
	}
	return saveFlag(flag, "kind = ? AND comment_id = ?", models.FlagKindComment, comment.ID)
}

func saveFlag(flag models.Flag, query string, args ...any) (models.Flag, error) {
	var existing models.Flag
	err := database.C.Where(query, args...).First(&existing).Error
	if err == nil {
		return existing, fmt.Errorf("target is already flagged: %w", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return flag, fmt.Errorf("unable to check flag: %v", err)
	}

	err = database.C.Create(&flag).Error
	return flag, err
}

// ListPendingFlags feeds the external moderation screen.
func ListPendingFlags(take int, offset int) ([]models.Flag, error) {
	if take > 100 {
		take = 100
	}

	var flags []models.Flag
	err := database.C.
		Where("status = ?", models.FlagStatusPending).
		Limit(take).Offset(offset).
		Order("created_at").
		Find(&flags).Error
	return flags, err
}
