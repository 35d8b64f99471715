package post

import (
	"backend-cuisinequest/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		posts, err := svc.ListPosts(c.Context(), c.Query("userId"))
		if err != nil {
			return err
		}
		return c.JSON(posts)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var in CreateInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := auth.CheckSubject(c, in.AuthorID); err != nil {
			return err
		}
		if in.AuthorName == "" {
			in.AuthorName = auth.DisplayName(c)
		}
		p, err := svc.CreatePost(c.Context(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":      p.ID,
			"message": "Food blog created successfully",
			"post":    p,
		})
	})
}
