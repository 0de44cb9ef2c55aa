package admin

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

// MapAdminAPIs mounts the management surface. It is meant to sit behind the
// internal network and a shared key, the public-facing UI lives elsewhere.
func MapAdminAPIs(app *fiber.App) {
	admin := app.Group("/admin", guard).Name("Admin API")
	{
		admin.Post("/areas", createArea)
		admin.Put("/areas/:area", updateArea)
		admin.Get("/areas/:area/posts", listAllPosts)
		admin.Get("/flags", listFlags)
		admin.Delete("/accounts/:accountId", eraseAccount)
	}
}

func guard(c *fiber.Ctx) error {
	key := viper.GetString("security.admin_key")
	if len(key) == 0 {
		return fiber.NewError(fiber.StatusForbidden, "admin surface is disabled")
	}
	if subtle.ConstantTimeCompare([]byte(c.Get("X-Admin-Key")), []byte(key)) != 1 {
		return fiber.NewError(fiber.StatusForbidden, "invalid admin key")
	}
	return c.Next()
}
