package middleware

import (
	"strings"

	"github.com/Mariolucas03/Kairos/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected rejects requests without a valid bearer token and stores the caller's id in Locals("user_id").
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tokenString string

		authHeader := c.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing Authorization bearer token",
			})
		}

		if secret == "" {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "JWT secret not set",
			})
		}

		userID, err := utils.ParseToken(tokenString, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}
