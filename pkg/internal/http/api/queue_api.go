package api

import (
	"github.com/spreadhq/spread/pkg/internal/http/exts"
	"github.com/spreadhq/spread/pkg/internal/models"
	"github.com/spreadhq/spread/pkg/internal/services"

	"github.com/gofiber/fiber/v2"
)

// getQueue tops the caller's stack up and returns it. A stack short of
// capacity just means the area ran out of eligible posts.
func getQueue(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	area, err := resolveArea(c)
	if err != nil {
		return err
	}

	stack, err := services.GetStack(area, user)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"count": len(stack),
		"data":  stack,
	})
}

// createPost publishes a new post into the area right away.
func createPost(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	area, err := resolveArea(c)
	if err != nil {
		return err
	}

	var data struct {
		Text   string             `json:"text" validate:"required,max=4096"`
		Anonym bool               `json:"anonym"`
		Head   *string            `json:"head_image"`
		Images []models.PostImage `json:"images" validate:"max=4,dive"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.NewPost(area, user, services.PostDraftOpts{
		Text:   data.Text,
		Anonym: data.Anonym,
		Head:   data.Head,
		Images: data.Images,
	}, false)
	if err != nil {
		return remapServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// resolveSpread takes a post out of the caller's stack, optionally paying
// the author's spread back into its allocation.
func resolveSpread(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	_, post, err := resolveAreaPost(c)
	if err != nil {
		return err
	}

	var data struct {
		Spread bool `json:"spread"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	post, err = services.ResolveStack(post, user, data.Spread)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(post)
}
