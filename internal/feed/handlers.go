package feed

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts GET /feed and GET /posts/:id on r.
func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/feed", func(c *fiber.Ctx) error {
		mode, err := ParseMode(c.Query("mode"))
		if err != nil {
			return err
		}
		items, err := svc.GetFeed(c.Context(), Request{
			ViewerID: c.Query("viewerId"),
			AuthorID: c.Query("userId"),
			Mode:     mode,
		})
		if err != nil {
			return err
		}
		return c.JSON(items)
	})

	r.Get("/posts/:id", func(c *fiber.Ctx) error {
		item, err := svc.GetPost(c.Context(), c.Params("id"), c.Query("viewerId"))
		if err != nil {
			return err
		}
		return c.JSON(item)
	})
}
