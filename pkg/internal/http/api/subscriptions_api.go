package api

import (
	"github.com/spreadhq/spread/pkg/internal/http/exts"
	"github.com/spreadhq/spread/pkg/internal/services"

	"github.com/gofiber/fiber/v2"
)

func getSubscription(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	_, post, err := resolveAreaPost(c)
	if err != nil {
		return err
	}

	subscribed, err := services.GetSubscribed(post, user)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(fiber.Map{"subscribed": subscribed})
}

func setSubscription(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	_, post, err := resolveAreaPost(c)
	if err != nil {
		return err
	}

	var data struct {
		Subscribed bool `json:"subscribed"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.SetSubscribed(post, user, data.Subscribed); err != nil {
		return remapServiceError(err)
	}

	return c.JSON(fiber.Map{"subscribed": data.Subscribed})
}

func listNotifications(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}

	notifications, err := services.ListNotifications(user)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"count": len(notifications),
		"data":  notifications,
	})
}

func clearNotifications(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}

	if err := services.ClearNotifications(user); err != nil {
		return remapServiceError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
