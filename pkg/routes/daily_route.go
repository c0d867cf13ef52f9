package routes

import (
	"github.com/Mariolucas03/Kairos/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func RegisterDailyRoutes(app *fiber.App, protected ...fiber.Handler) {
	daily := app.Group("/daily", protected...)
	daily.Get("/", controllers.GetDailyLog)
	daily.Get("/specific", controllers.GetSpecificDailyLog)
	daily.Get("/history", controllers.GetWeightHistory)
	daily.Put("/", controllers.UpdateDailyLog)
}
