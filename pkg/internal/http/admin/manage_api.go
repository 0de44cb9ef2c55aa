package admin

import (
	"errors"
	"strconv"

	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/http/exts"
	"github.com/spreadhq/spread/pkg/internal/services"

	"github.com/gofiber/fiber/v2"
)

func createArea(c *fiber.Ctx) error {
	var data struct {
		Name        string `json:"name" validate:"required,lowercase,alphanum,max=30"`
		Displayname string `json:"displayname" validate:"required,max=30"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	area, err := services.NewArea(data.Name, data.Displayname)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(area)
}

func updateArea(c *fiber.Ctx) error {
	area, err := services.GetArea(c.Params("area"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	var data struct {
		Displayname string `json:"displayname" validate:"required,max=30"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	area, err = services.EditArea(area, data.Displayname)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(area)
}

// listAllPosts sees everything in an area, drafts and expired included.
func listAllPosts(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	area, err := services.GetArea(c.Params("area"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	tx := services.FilterPostWithArea(database.C, area)
	count, err := services.CountPost(tx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	items, err := services.ListPost(tx, take, offset, "created_at DESC")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func listFlags(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	flags, err := services.ListPendingFlags(take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": len(flags),
		"data":  flags,
	})
}

func eraseAccount(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("accountId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "account id must be a number")
	}

	if err := services.EraseAccount(uint(id)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusNoContent)
}
