package api

import (
	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/services"

	"github.com/gofiber/fiber/v2"
)

func getReputation(c *fiber.Ctx) error {
	user, err := requireAuth(c)
	if err != nil {
		return err
	}
	area, err := resolveArea(c)
	if err != nil {
		return err
	}

	rep, err := services.GetReputation(database.C, area, user.ID)
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"reputation": rep.Reputation,
		"spread":     rep.Spread(area),
	})
}
