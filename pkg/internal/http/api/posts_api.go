package api

import (
	"github.com/spreadhq/spread/pkg/internal/authz"
	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/services"

	"github.com/gofiber/fiber/v2"
)

// getPost returns the post detail with its comment thread. Viewing the
// detail counts as reading: the caller's unread markers on this post get
// dropped along the way.
func getPost(c *fiber.Ctx) error {
	_, post, err := resolveAreaPost(c)
	if err != nil {
		return err
	}

	comments, err := services.ListComment(post)
	if err != nil {
		return remapServiceError(err)
	}

	subscribed := false
	if user, authenticated := c.Locals("user").(authz.Account); authenticated {
		if err := services.MarkPostRead(user, post); err != nil {
			return remapServiceError(err)
		}
		subscribed, err = services.GetSubscribed(post, user)
		if err != nil {
			return remapServiceError(err)
		}
	}

	return c.JSON(fiber.Map{
		"post":       post,
		"comments":   comments,
		"subscribed": subscribed,
	})
}

func deletePost(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	_, post, err := resolveAreaPost(c)
	if err != nil {
		return err
	}

	if post.AccountID == nil || *post.AccountID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "only the author can delete a post")
	}

	if err := services.DeletePost(post); err != nil {
		return remapServiceError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func listOwnPosts(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	area, err := resolveArea(c)
	if err != nil {
		return err
	}

	tx := services.FilterPostWithAuthor(
		services.FilterPostDraft(services.FilterPostWithArea(database.C, area)), user.ID)

	count, err := services.CountPost(tx)
	if err != nil {
		return remapServiceError(err)
	}
	items, err := services.ListPost(tx, take, offset, "published_at DESC")
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func listSubscribedPosts(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	area, err := resolveArea(c)
	if err != nil {
		return err
	}

	items, err := services.ListSubscribedPosts(area, user)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}
