package api

import (
	"strconv"

	"github.com/spreadhq/spread/pkg/internal/http/exts"
	"github.com/spreadhq/spread/pkg/internal/models"
	"github.com/spreadhq/spread/pkg/internal/services"

	"github.com/gofiber/fiber/v2"
)

// resolveDraft scopes to the caller's own drafts; anyone else sees 404.
func resolveDraft(c *fiber.Ctx) (models.Post, error) {
	user, err := requireAuth(c)
	if err != nil {
		return models.Post{}, err
	}
	if _, err := resolveArea(c); err != nil {
		return models.Post{}, err
	}

	draft, err := services.GetDraftByURIKey(user, c.Params("key"))
	if err != nil {
		return draft, remapServiceError(err)
	}
	return draft, nil
}

func listDrafts(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	area, err := resolveArea(c)
	if err != nil {
		return err
	}

	items, err := services.ListDraft(area, user)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}

func createDraft(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	area, err := resolveArea(c)
	if err != nil {
		return err
	}

	var data struct {
		Text   string             `json:"text" validate:"max=4096"`
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
	}, true)
	if err != nil {
		return remapServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func getDraft(c *fiber.Ctx) error {
	draft, err := resolveDraft(c)
	if err != nil {
		return err
	}

	return c.JSON(draft)
}

func updateDraft(c *fiber.Ctx) error {
	draft, err := resolveDraft(c)
	if err != nil {
		return err
	}

	var data struct {
		Text   *string `json:"text" validate:"omitempty,max=4096"`
		Anonym *bool   `json:"anonym"`
		Head   *string `json:"head_image"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	draft, err = services.EditDraft(draft, services.DraftUpdate{
		Text:   data.Text,
		Anonym: data.Anonym,
		Head:   data.Head,
	})
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(draft)
}

func deleteDraft(c *fiber.Ctx) error {
	draft, err := resolveDraft(c)
	if err != nil {
		return err
	}

	if err := services.DeletePost(draft); err != nil {
		return remapServiceError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func publishDraft(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	draft, err := resolveDraft(c)
	if err != nil {
		return err
	}

	post, err := services.PublishPost(draft, user)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(post)
}

func draftImageNum(c *fiber.Ctx) (int, error) {
	num, err := strconv.Atoi(c.Params("num"))
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "image slot must be a number")
	}
	return num, nil
}

func getDraftImage(c *fiber.Ctx) error {
	draft, err := resolveDraft(c)
	if err != nil {
		return err
	}
	num, err := draftImageNum(c)
	if err != nil {
		return err
	}

	image, err := services.GetDraftImage(draft, num)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(image)
}

func putDraftImage(c *fiber.Ctx) error {
	draft, err := resolveDraft(c)
	if err != nil {
		return err
	}
	num, err := draftImageNum(c)
	if err != nil {
		return err
	}

	var data struct {
		Attachment string `json:"attachment" validate:"required"`
		Caption    string `json:"caption" validate:"max=256"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	draft, err = services.PutDraftImage(draft, num, data.Attachment, data.Caption)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(draft)
}

func deleteDraftImage(c *fiber.Ctx) error {
	draft, err := resolveDraft(c)
	if err != nil {
		return err
	}
	num, err := draftImageNum(c)
	if err != nil {
		return err
	}

	if _, err := services.DeleteDraftImage(draft, num); err != nil {
		return remapServiceError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
