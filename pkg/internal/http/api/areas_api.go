package api

import (
	"github.com/spreadhq/spread/pkg/internal/services"

	"github.com/gofiber/fiber/v2"
)

func listAreas(c *fiber.Ctx) error {
	areas, err := services.ListArea()
	if err != nil {
		return remapServiceError(err)
	}

	return c.JSON(areas)
}
