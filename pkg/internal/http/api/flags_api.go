package api

import (
	"github.com/spreadhq/spread/pkg/internal/services"

	"github.com/gofiber/fiber/v2"
)

func flagPost(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	_, post, err := resolveAreaPost(c)
	if err != nil {
		return err
	}

	flag, err := services.FlagPost(post, user)
	if err != nil {
		return remapServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(flag)
}

func flagComment(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	comment, err := resolveComment(c)
	if err != nil {
		return err
	}

	flag, err := services.FlagComment(comment, user)
	if err != nil {
		return remapServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(flag)
}
