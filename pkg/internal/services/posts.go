package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/spreadhq/spread/pkg/internal/authz"
	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GenerateNonce returns a random 8 digit number which never starts with a
// zero, used as the guessing-resistant prefix of the post URI key.
func GenerateNonce() int {
	return rand.Intn(9e7) + 1e7
}

// ParseURIKey splits an external post key back into nonce and record id.
func ParseURIKey(key string) (nonce int, id uint, err error) {
	if len(key) < 9 {
		return 0, 0, fmt.Errorf("malformed post key")
	}
	nonce, err = strconv.Atoi(key[:8])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed post key: %v", err)
	}
	raw, err := strconv.ParseUint(key[8:], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed post key: %v", err)
	}
	return nonce, uint(raw), nil
}

func FilterPostWithArea(tx *gorm.DB, area models.Area) *gorm.DB {
	return tx.Where("area_id = ?", area.ID)
}

func FilterPostDraft(tx *gorm.DB) *gorm.DB {
	return tx.Where("is_draft = ?", false)
}

// FilterPostActive narrows to posts inside their distribution window. The
// window is evaluated at read time, nothing ever sweeps posts inactive.
func FilterPostActive(tx *gorm.DB, now time.Time) *gorm.DB {
	return tx.
		Where("is_draft = ?", false).
		Where("published_at > ?", now.Add(-models.ActivityWindow))
}

func FilterPostWithAuthor(tx *gorm.DB, accountID uint) *gorm.DB {
	return tx.Where("account_id = ?", accountID)
}

func FilterPostWithAuthorDraft(tx *gorm.DB, accountID uint) *gorm.DB {
	return tx.Where("account_id = ? AND is_draft = ?", accountID, true)
}

func GetPost(tx *gorm.DB, id uint) (models.Post, error) {
	var item models.Post
	if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, fmt.Errorf("post #%d: %w", id, ErrNotFound)
		}
		return item, err
	}
	return item, nil
}

// GetPostByURIKey resolves an external key. A wrong nonce yields the same
// not-found as a missing record, nothing leaks about which ids exist.
func GetPostByURIKey(tx *gorm.DB, key string) (models.Post, error) {
	var item models.Post
	nonce, id, err := ParseURIKey(key)
	if err != nil {
		return item, fmt.Errorf("%v: %w", err, ErrNotFound)
	}

	if err := tx.Where("id = ? AND nonce = ?", id, nonce).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, fmt.Errorf("post %s: %w", key, ErrNotFound)
		}
		return item, err
	}
	return item, nil
}

func CountPost(tx *gorm.DB) (int64, error) {
	var count int64
	err := tx.Model(&models.Post{}).Count(&count).Error
	return count, err
}

func ListPost(tx *gorm.DB, take int, offset int, order any) ([]models.Post, error) {
	if take > 100 {
		take = 100
	}

	var items []models.Post
	if err := tx.
		Limit(take).Offset(offset).
		Order(order).
		Find(&items).Error; err != nil {
		return items, err
	}

	return items, nil
}

type PostDraftOpts struct {
	Text   string
	Anonym bool
	Head   *string
	Images []models.PostImage
}

// NewPost creates a post in one area. When draft is false the post goes
// through the full publish path immediately: allocation from the author's
// spread, author receipt and author subscription, all in one transaction.
func NewPost(area models.Area, user authz.Account, opts PostDraftOpts, draft bool) (models.Post, error) {
	if !draft && !authz.O.MayPost(user) {
		return models.Post{}, fmt.Errorf("account #%d may not post: %w", user.ID, ErrForbidden)
	}
	if len(opts.Images) > models.MaxPostImages {
		return models.Post{}, fmt.Errorf("at most %d additional images: %w", models.MaxPostImages, ErrInvalidState)
	}

	item := models.Post{
		AreaID:    area.ID,
		AccountID: &user.ID,
		Anonym:    opts.Anonym,
		Nonce:     GenerateNonce(),
		Text:      opts.Text,
		Language:  DetectLanguage(opts.Text),
		Head:      opts.Head,
		Images:    datatypes.NewJSONSlice(opts.Images),
		IsDraft:   true,
	}

	start := time.Now()
	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		if draft {
			return nil
		}
		return publishTx(tx, &item, area, user)
	})
	if err != nil {
		return item, err
	}

	log.Debug().Uint("post", item.ID).Bool("draft", draft).
		Dur("elapsed", time.Since(start)).Msg("The post is posted.")
	return item, nil
}

// PublishPost activates a draft. One way only, a published post can never
// return to draft.
func PublishPost(post models.Post, user authz.Account) (models.Post, error) {
	if post.AccountID == nil || *post.AccountID != user.ID {
		return post, fmt.Errorf("only the author may publish: %w", ErrForbidden)
	}
	if !post.IsDraft {
		return post, fmt.Errorf("post #%d is already published: %w", post.ID, ErrInvalidState)
	}
	if !authz.O.MayPost(user) {
		return post, fmt.Errorf("account #%d may not post: %w", user.ID, ErrForbidden)
	}

	area, err := getAreaByID(post.AreaID)
	if err != nil {
		return post, err
	}

	err = database.C.Transaction(func(tx *gorm.DB) error {
		return publishTx(tx, &post, area, user)
	})
	return post, err
}

// publishTx carries every side effect of activation: stamp the publish time,
// seed the outstanding allocation from the author's current spread, receipt
// the author so they never draw their own post and subscribe them to their
// own comment thread.
func publishTx(tx *gorm.DB, post *models.Post, area models.Area, user authz.Account) error {
	quota, err := GetSpread(tx, area, &user.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	post.IsDraft = false
	post.PublishedAt = &now
	post.StackOutstanding = quota
	if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]any{
		"is_draft":          false,
		"published_at":      now,
		"stack_outstanding": quota,
	}).Error; err != nil {
		return err
	}

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PostReceipt{PostID: post.ID, AccountID: user.ID}).Error; err != nil {
		return err
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PostSubscriber{PostID: post.ID, AccountID: user.ID}).Error
}

// DeletePost removes the post with its comments, membership rows and unread
// markers in one go.
func DeletePost(post models.Post) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		for _, sweep := range []any{
			&models.PostAssignment{},
			&models.PostReceipt{},
			&models.PostSubscriber{},
			&models.CommentUnread{},
		} {
			if err := tx.Where("post_id = ?", post.ID).Delete(sweep).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

func getAreaByID(id uint) (models.Area, error) {
	var area models.Area
	if err := database.C.Where("id = ?", id).First(&area).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return area, fmt.Errorf("area #%d: %w", id, ErrNotFound)
		}
		return area, err
	}
	return area, nil
}
