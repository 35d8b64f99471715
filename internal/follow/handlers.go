package follow

import (
	"backend-cuisinequest/internal/auth"

	"github.com/gofiber/fiber/v2"
)

type followRequest struct {
	UserID      string `json:"userId"`
	FollowingID string `json:"followingId"`
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req followRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := auth.CheckSubject(c, req.UserID); err != nil {
			return err
		}
		edge, err := svc.Follow(c.Context(), req.UserID, req.FollowingID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":      edge.ID,
			"message": "Following user successfully",
		})
	})

	r.Delete("/", authMiddleware, func(c *fiber.Ctx) error {
		userID := c.Query("userId")
		if err := auth.CheckSubject(c, userID); err != nil {
			return err
		}
		if err := svc.Unfollow(c.Context(), userID, c.Query("followingId")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Unfollowed successfully"})
	})

	r.Get("/", func(c *fiber.Ctx) error {
		ids, err := svc.ListFollowing(c.Context(), c.Query("userId"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"followingIds": ids})
	})

	r.Get("/followers", func(c *fiber.Ctx) error {
		ids, err := svc.ListFollowers(c.Context(), c.Query("userId"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"followerIds": ids})
	})
}
