package auth

import (
	"strings"

	"backend-cuisinequest/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID   = "user_id"
	localUserName = "user_name"
)

// JWTMiddleware validates bearer tokens and stores the identity in locals.
func JWTMiddleware(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := parseClaims(token, secretBytes)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		c.Locals(localUserID, claims.UserID)
		c.Locals(localUserName, claims.Name)
		return c.Next()
	}
}

// UserID returns the authenticated user id, or "" on unauthenticated routes.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func DisplayName(c *fiber.Ctx) string {
	name, _ := c.Locals(localUserName).(string)
	return name
}

// CheckSubject rejects a request that acts for a user other than the
// authenticated one. Requests without an identity are left to the service.
func CheckSubject(c *fiber.Ctx, userID string) error {
	subject := UserID(c)
	if subject == "" || userID == "" || subject == userID {
		return nil
	}
	return apperr.ErrIdentityMismatch
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
