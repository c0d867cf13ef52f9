package controllers

import (
	"github.com/gofiber/fiber/v2"
)

// UserProfile returns the profile as refreshed by the streak middleware.
func UserProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(user)
}
