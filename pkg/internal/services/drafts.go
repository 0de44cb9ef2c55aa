package services

import (
	"errors"
	"fmt"

	"github.com/spreadhq/spread/pkg/internal/authz"
	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Drafts exist only for their author. Every lookup is scoped that way, so an
// outsider probing a draft key gets the same not-found as for a missing post.

func GetDraftByURIKey(user authz.Account, key string) (models.Post, error) {
	var item models.Post
	nonce, id, err := ParseURIKey(key)
	if err != nil {
		return item, fmt.Errorf("%v: %w", err, ErrNotFound)
	}

	if err := FilterPostWithAuthorDraft(database.C, user.ID).
		Where("id = ? AND nonce = ?", id, nonce).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, fmt.Errorf("draft %s: %w", key, ErrNotFound)
		}
		return item, err
	}
	return item, nil
}

func ListDraft(area models.Area, user authz.Account) ([]models.Post, error) {
	var items []models.Post
	err := FilterPostWithAuthorDraft(FilterPostWithArea(database.C, area), user.ID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

type DraftUpdate struct {
	Text   *string
	Anonym *bool
	Head   *string
}

// EditDraft updates the mutable fields of a draft. Once published the text
// and image set are frozen, so anything not a draft is rejected.
func EditDraft(post models.Post, update DraftUpdate) (models.Post, error) {
	if !post.IsDraft {
		return post, fmt.Errorf("post %s is published: %w", post.URIKey(), ErrInvalidState)
	}

	if update.Text != nil {
		post.Text = *update.Text
		post.Language = DetectLanguage(*update.Text)
	}
	if update.Anonym != nil {
		post.Anonym = *update.Anonym
	}
	if update.Head != nil {
		post.Head = update.Head
	}

	err := database.C.Save(&post).Error
	return post, err
}

// GetDraftImage returns the additional image at one slot.
func GetDraftImage(post models.Post, num int) (models.PostImage, error) {
	for _, image := range post.Images {
		if image.Num == num {
			return image, nil
		}
	}
	return models.PostImage{}, fmt.Errorf("image %d of draft %s: %w", num, post.URIKey(), ErrNotFound)
}

// PutDraftImage attaches or recaptions the image at one slot. Slots beyond
// the fixed limit never existed and never will.
func PutDraftImage(post models.Post, num int, attachment, caption string) (models.Post, error) {
	if !post.IsDraft {
		return post, fmt.Errorf("post %s is published: %w", post.URIKey(), ErrInvalidState)
	}
	if num < 0 || num >= models.MaxPostImages {
		return post, fmt.Errorf("image slots go from 0 to %d: %w", models.MaxPostImages-1, ErrInvalidState)
	}

	images := []models.PostImage(post.Images)
	replaced := false
	for idx, image := range images {
		if image.Num == num {
			images[idx] = models.PostImage{Num: num, Attachment: attachment, Caption: caption}
			replaced = true
			break
		}
	}
	if !replaced {
		images = append(images, models.PostImage{Num: num, Attachment: attachment, Caption: caption})
	}

	post.Images = datatypes.NewJSONSlice(images)
	err := database.C.Save(&post).Error
	return post, err
}

// DeleteDraftImage clears one image slot. Clearing an empty slot is a no-op.
func DeleteDraftImage(post models.Post, num int) (models.Post, error) {
	if !post.IsDraft {
		return post, fmt.Errorf("post %s is published: %w", post.URIKey(), ErrInvalidState)
	}

	images := make([]models.PostImage, 0, len(post.Images))
	for _, image := range post.Images {
		if image.Num != num {
			images = append(images, image)
		}
	}
	if len(images) == len(post.Images) {
		return post, nil
	}

	post.Images = datatypes.NewJSONSlice(images)
	err := database.C.Save(&post).Error
	return post, err
}
