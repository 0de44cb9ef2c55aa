package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/spreadhq/spread/pkg/internal/authz"
	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errAssignmentLost = errors.New("assignment lost the race")

// GetStack returns the user's review queue in one area, topping it up to the
// area's stack size from the eligible posts first.
//
// Eligible means: active, outstanding allocation left, not currently assigned
// to the user and never receipted by the user. The candidate set is read once
// as a fixed snapshot and the missing slots are drawn from it uniformly at
// random without replacement, so the read load lands evenly across posts
// instead of always hitting the oldest ones.
func GetStack(area models.Area, user authz.Account) ([]models.Post, error) {
	current, err := ListAssignedPosts(area, user)
	if err != nil {
		return nil, err
	}

	missing := area.MaxUserStack - len(current)
	if missing <= 0 {
		return current, nil
	}

	assignedTx := database.C.Model(&models.PostAssignment{}).
		Select("post_id").Where("account_id = ?", user.ID)
	receiptedTx := database.C.Model(&models.PostReceipt{}).
		Select("post_id").Where("account_id = ?", user.ID)

	var available []uint
	if err := FilterPostActive(FilterPostWithArea(database.C.Model(&models.Post{}), area), time.Now()).
		Where("stack_outstanding > 0").
		Where("id NOT IN (?)", assignedTx).
		Where("id NOT IN (?)", receiptedTx).
		Pluck("id", &available).Error; err != nil {
		return current, fmt.Errorf("unable to snapshot available posts: %v", err)
	}

	picked := available
	if len(available) > missing {
		picked = lo.Samples(available, missing)
	}

	var gained []uint
	for _, id := range picked {
		ok, err := assignStackPost(id, user.ID)
		if err != nil {
			return current, err
		}
		if ok {
			gained = append(gained, id)
		}
	}

	if len(gained) > 0 {
		var fresh []models.Post
		if err := database.C.Where("id IN ?", gained).Find(&fresh).Error; err != nil {
			return current, err
		}
		current = append(current, fresh...)
	}

	log.Debug().Str("area", area.Name).Uint("account", user.ID).
		Int("assigned", len(gained)).Int("stack", len(current)).
		Msg("Filled up user stack.")
	return current, nil
}

// ListAssignedPosts returns the posts currently sitting in the user's stack.
func ListAssignedPosts(area models.Area, user authz.Account) ([]models.Post, error) {
	var items []models.Post
	err := database.C.
		Joins("JOIN post_assignments ON post_assignments.post_id = posts.id").
		Where("post_assignments.account_id = ?", user.ID).
		Where("posts.area_id = ?", area.ID).
		Find(&items).Error
	if err != nil {
		return items, fmt.Errorf("unable to list assigned posts: %v", err)
	}
	return items, nil
}

// assignStackPost takes one allocation slot of a post for a user. Decrement
// and membership insert commit together or not at all; a decrement that
// matches no row means another caller drained the post first and the whole
// assignment is dropped, never pushing the counter below zero.
func assignStackPost(postID uint, accountID uint) (bool, error) {
	err := database.C.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).
			Where("id = ? AND stack_outstanding > 0", postID).
			Update("stack_outstanding", gorm.Expr("stack_outstanding - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAssignmentLost
		}

		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostAssignment{PostID: postID, AccountID: accountID})
		if ins.Error != nil {
			return ins.Error
		}
		if ins.RowsAffected == 0 {
			// Already assigned, roll the decrement back too.
			return errAssignmentLost
		}
		return nil
	})
	if errors.Is(err, errAssignmentLost) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("unable to assign post #%d: %v", postID, err)
	}
	return true, nil
}

// ResolveStack finishes one review. The post leaves the user's stack for
// good; a spread vote pays the author's current spread quota back into the
// post's outstanding allocation.
func ResolveStack(post models.Post, user authz.Account, spread bool) (models.Post, error) {
	err := database.C.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND account_id = ?", post.ID, user.ID).
			Delete(&models.PostAssignment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("post %s is not in the stack of account #%d: %w",
				post.URIKey(), user.ID, ErrForbidden)
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostReceipt{PostID: post.ID, AccountID: user.ID}).Error; err != nil {
			return err
		}

		if spread {
			area, err := getAreaByID(post.AreaID)
			if err != nil {
				return err
			}
			// Credit follows the original author's spread, not the reviewer's.
			quota, err := GetSpread(tx, area, post.AccountID)
			if err != nil {
				return err
			}
			if err := tx.Model(&models.Post{}).
				Where("id = ?", post.ID).
				Update("stack_outstanding", gorm.Expr("stack_outstanding + ?", quota)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return post, err
	}

	return GetPost(database.C, post.ID)
}

// IsAssigned reports whether the post currently sits in the user's stack.
func IsAssigned(post models.Post, accountID uint) (bool, error) {
	var count int64
	err := database.C.Model(&models.PostAssignment{}).
		Where("post_id = ? AND account_id = ?", post.ID, accountID).
		Count(&count).Error
	return count > 0, err
}
