package api

import (
	"strconv"

	"github.com/spreadhq/spread/pkg/internal/http/exts"
	"github.com/spreadhq/spread/pkg/internal/models"
	"github.com/spreadhq/spread/pkg/internal/services"

	"github.com/gofiber/fiber/v2"
)

func resolveComment(c *fiber.Ctx) (models.Comment, error) {
	_, post, err := resolveAreaPost(c)
	if err != nil {
		return models.Comment{}, err
	}

	id, err := strconv.ParseUint(c.Params("commentId"), 10, 64)
	if err != nil {
		return models.Comment{}, fiber.NewError(fiber.StatusBadRequest, "comment id must be a number")
	}

	comment, err := services.GetComment(post, uint(id))
	if err != nil {
		return comment, remapServiceError(err)
	}
	return comment, nil
}

func createComment(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	_, post, err := resolveAreaPost(c)
	if err != nil {
		return err
	}

	var data struct {
		Text       string  `json:"text" validate:"required,max=4096"`
		Attachment *string `json:"attachment"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	comment, err := services.NewComment(post, user, data.Text, data.Attachment)
	if err != nil {
		return remapServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func getComment(c *fiber.Ctx) error {
	comment, err := resolveComment(c)
	if err != nil {
		return err
	}

	return c.JSON(comment)
}

func deleteComment(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	comment, err := resolveComment(c)
	if err != nil {
		return err
	}

	if comment.AccountID == nil || *comment.AccountID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "only the author can delete a comment")
	}

	if err := services.DeleteComment(comment); err != nil {
		return remapServiceError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
