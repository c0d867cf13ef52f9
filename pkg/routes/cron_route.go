package routes

import (
	"github.com/Mariolucas03/Kairos/app/controllers"
	"github.com/gofiber/fiber/v2"
)

// RegisterCronRoutes exposes the endpoints an external scheduler calls. They carry no JWT.
func RegisterCronRoutes(app *fiber.App) {
	cron := app.Group("/cron")
	cron.Get("/ping", controllers.Ping)
	cron.Get("/nightly-maintenance", controllers.NightlyMaintenance)
}
