package services

import (
	"errors"
	"fmt"

	"github.com/spreadhq/spread/pkg/internal/authz"
	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func GetComment(post models.Post, id uint) (models.Comment, error) {
	var item models.Comment
	if err := database.C.
		Where("id = ? AND post_id = ?", id, post.ID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, fmt.Errorf("comment #%d: %w", id, ErrNotFound)
		}
		return item, err
	}
	return item, nil
}

func ListComment(post models.Post) ([]models.Comment, error) {
	var items []models.Comment
	err := database.C.
		Where("post_id = ?", post.ID).
		Order("created_at").
		Find(&items).Error
	return items, err
}

// NewComment appends a comment to a post. The author joins the subscriber
// set of the post and every other current subscriber gets an unread marker
// for the new comment, all in the same transaction.
func NewComment(post models.Post, user authz.Account, text string, attachment *string) (models.Comment, error) {
	if !authz.O.MayComment(user) {
		return models.Comment{}, fmt.Errorf("account #%d may not comment: %w", user.ID, ErrForbidden)
	}

	item := models.Comment{
		PostID:     post.ID,
		AccountID:  &user.ID,
		Text:       text,
		Attachment: attachment,
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostSubscriber{PostID: post.ID, AccountID: user.ID}).Error; err != nil {
			return err
		}

		var subscribers []models.PostSubscriber
		if err := tx.
			Where("post_id = ? AND account_id != ?", post.ID, user.ID).
			Find(&subscribers).Error; err != nil {
			return err
		}
		if len(subscribers) == 0 {
			return nil
		}

		markers := lo.Map(subscribers, func(entry models.PostSubscriber, _ int) models.CommentUnread {
			return models.CommentUnread{
				CommentID: item.ID,
				AccountID: entry.AccountID,
				PostID:    post.ID,
			}
		})
		return tx.CreateInBatches(markers, 1000).Error
	})
	if err != nil {
		return item, fmt.Errorf("unable to create comment: %v", err)
	}

	return item, nil
}

// DeleteComment removes one comment with its unread markers and flags.
func DeleteComment(comment models.Comment) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).
			Delete(&models.CommentUnread{}).Error; err != nil {
			return err
		}
		if err := tx.Where("kind = ? AND comment_id = ?", models.FlagKindComment, comment.ID).
			Delete(&models.Flag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
}
