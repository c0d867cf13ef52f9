package controllers

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const maintenanceTimeout = 10 * time.Minute

// runInBackground starts detached work; tests swap it for a synchronous call.
var runInBackground = func(fn func()) { go fn() }

// NightlyMaintenance starts the stale-habit sweep and answers before it finishes.
func NightlyMaintenance(c *fiber.Ctx) error {
	key := c.Get("X-Cron-Secret")
	if cronSecret == "" || subtle.ConstantTimeCompare([]byte(key), []byte(cronSecret)) != 1 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Invalid cron secret"})
	}

	runInBackground(func() {
		ctx, cancel := context.WithTimeout(context.Background(), maintenanceTimeout)
		defer cancel()
		if _, err := svc.Maintenance.RunNightly(ctx); err != nil {
			log.Errorw("nightly maintenance failed", "error", err)
		}
	})
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "Maintenance started"})
}

// Ping keeps free-tier hosts awake.
func Ping(c *fiber.Ctx) error {
	return c.SendString(".")
}
