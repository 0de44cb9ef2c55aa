package api

import (
	"errors"

	"github.com/spreadhq/spread/pkg/internal/authz"
	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/models"
	"github.com/spreadhq/spread/pkg/internal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func MapAPIs(app *fiber.App) {
	api := app.Group("/api").Name("API")
	{
		api.Get("/notifications", listNotifications)
		api.Delete("/notifications", clearNotifications)

		areas := api.Group("/areas").Name("Areas API")
		{
			areas.Get("/", listAreas)

			area := areas.Group("/:area").Name("Area API")
			{
				area.Get("/queue", getQueue)
				area.Post("/queue", createPost)
				area.Get("/own", listOwnPosts)
				area.Get("/subscribed", listSubscribedPosts)
				area.Get("/reputation", getReputation)

				drafts := area.Group("/drafts").Name("Drafts API")
				{
					drafts.Get("/", listDrafts)
					drafts.Post("/", createDraft)
					drafts.Get("/:key", getDraft)
					drafts.Put("/:key", updateDraft)
				drafts.Patch("/:key", updateDraft)
					drafts.Delete("/:key", deleteDraft)
					drafts.Post("/:key/publish", publishDraft)
					drafts.Get("/:key/images/:num", getDraftImage)
					drafts.Put("/:key/images/:num", putDraftImage)
					drafts.Delete("/:key/images/:num", deleteDraftImage)
				}

				post := area.Group("/:key").Name("Post API")
				{
					post.Get("/", getPost)
					post.Delete("/", deletePost)
					post.Post("/spread", resolveSpread)
					post.Get("/subscription", getSubscription)
					post.Put("/subscription", setSubscription)
					post.Post("/flag", flagPost)
					post.Post("/comments", createComment)
					post.Get("/comments/:commentId", getComment)
					post.Delete("/comments/:commentId", deleteComment)
					post.Post("/comments/:commentId/flag", flagComment)
				}
			}
		}
	}
}

// requireAuth pulls the authenticated account out of the request context.
func requireAuth(c *fiber.Ctx) (authz.Account, error) {
	user, ok := c.Locals("user").(authz.Account)
	if !ok {
		return user, fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	return user, nil
}

// remapServiceError translates the services failure taxonomy into statuses.
func remapServiceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidState):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

func resolveArea(c *fiber.Ctx) (models.Area, error) {
	area, err := services.GetArea(c.Params("area"))
	if err != nil {
		return area, remapServiceError(err)
	}
	return area, nil
}

// resolveAreaPost loads a published post of the current area by its URI key.
func resolveAreaPost(c *fiber.Ctx) (models.Area, models.Post, error) {
	area, err := resolveArea(c)
	if err != nil {
		return area, models.Post{}, err
	}

	tx := services.FilterPostDraft(services.FilterPostWithArea(database.C, area))
	post, err := services.GetPostByURIKey(tx, c.Params("key"))
	if err != nil {
		return area, post, remapServiceError(err)
	}
	return area, post, nil
}
