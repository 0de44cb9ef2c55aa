package services

import (
	"fmt"

	"github.com/spreadhq/spread/pkg/internal/authz"
	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/models"

	"gorm.io/gorm/clause"
)

// GetSubscribed reports whether the user is in the post's subscriber set.
func GetSubscribed(post models.Post, user authz.Account) (bool, error) {
	var count int64
	err := database.C.Model(&models.PostSubscriber{}).
		Where("post_id = ? AND account_id = ?", post.ID, user.ID).
		Count(&count).Error
	return count > 0, err
}

// SetSubscribed adds or removes the membership. Both directions are
// idempotent: subscribing twice or unsubscribing while not subscribed are
// defined no-ops, never errors.
func SetSubscribed(post models.Post, user authz.Account, desired bool) error {
	if desired {
		return database.C.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostSubscriber{PostID: post.ID, AccountID: user.ID}).Error
	}
	return database.C.
		Where("post_id = ? AND account_id = ?", post.ID, user.ID).
		Delete(&models.PostSubscriber{}).Error
}

// ListSubscribedPosts returns the posts of one area the user subscribed to,
// newest first.
func ListSubscribedPosts(area models.Area, user authz.Account) ([]models.Post, error) {
	var items []models.Post
	err := database.C.
		Joins("JOIN post_subscribers ON post_subscribers.post_id = posts.id").
		Where("post_subscribers.account_id = ?", user.ID).
		Where("posts.area_id = ?", area.ID).
		Where("posts.is_draft = ?", false).
		Order("posts.published_at DESC").
		Find(&items).Error
	if err != nil {
		return items, fmt.Errorf("unable to list subscribed posts: %v", err)
	}
	return items, nil
}

// Notification groups the unread comments of one post.
type Notification struct {
	Area     string      `json:"area"`
	Post     models.Post `json:"post"`
	Comments []uint      `json:"comments"`
}

// ListNotifications returns the user's unread comments grouped by parent
// post. Retrieval is polling style, nothing is pushed.
func ListNotifications(user authz.Account) ([]Notification, error) {
	var markers []models.CommentUnread
	if err := database.C.
		Where("account_id = ?", user.ID).
		Order("post_id, comment_id").
		Find(&markers).Error; err != nil {
		return nil, fmt.Errorf("unable to list unread markers: %v", err)
	}
	if len(markers) == 0 {
		return []Notification{}, nil
	}

	grouped := map[uint][]uint{}
	var order []uint
	for _, marker := range markers {
		if _, seen := grouped[marker.PostID]; !seen {
			order = append(order, marker.PostID)
		}
		grouped[marker.PostID] = append(grouped[marker.PostID], marker.CommentID)
	}

	var posts []models.Post
	if err := database.C.Preload("Area").Where("id IN ?", order).Find(&posts).Error; err != nil {
		return nil, err
	}
	postMap := map[uint]models.Post{}
	for _, post := range posts {
		postMap[post.ID] = post
	}

	notifications := make([]Notification, 0, len(order))
	for _, postID := range order {
		post, ok := postMap[postID]
		if !ok {
			continue
		}
		notifications = append(notifications, Notification{
			Area:     post.Area.Name,
			Post:     post,
			Comments: grouped[postID],
		})
	}
	return notifications, nil
}

// MarkPostRead drops every unread marker the user holds on one post. Called
// lazily whenever the user views the post detail; a second call is a no-op.
func MarkPostRead(user authz.Account, post models.Post) error {
	return database.C.
		Where("account_id = ? AND post_id = ?", user.ID, post.ID).
		Delete(&models.CommentUnread{}).Error
}

// ClearNotifications drops every unread marker of the user.
func ClearNotifications(user authz.Account) error {
	return database.C.
		Where("account_id = ?", user.ID).
		Delete(&models.CommentUnread{}).Error
}
