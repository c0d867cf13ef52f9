package middleware

import (
	"context"
	"errors"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/Mariolucas03/Kairos/app/queries"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// StreakToucher loads a user and advances their login streak.
type StreakToucher interface {
	Touch(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// StreakMiddleware runs after JWTProtected. It refreshes the caller's streak and stores the
// profile in Locals("user"). A user deleted since the token was issued is answered 401.
func StreakMiddleware(streaks StreakToucher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(uuid.UUID)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not authenticated",
			})
		}

		user, err := streaks.Touch(c.UserContext(), userID)
		if errors.Is(err, queries.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User no longer exists",
			})
		}
		if err != nil {
			log.Errorw("streak update failed", "user_id", userID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}

		c.Locals("user", user)
		return c.Next()
	}
}
