package routes

import (
	"github.com/Mariolucas03/Kairos/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func RegisterMissionRoutes(app *fiber.App, protected ...fiber.Handler) {
	mission := app.Group("/missions", protected...)
	mission.Get("/", controllers.GetMissions)
	mission.Post("/", controllers.CreateMission)
	mission.Post("/respond", controllers.RespondMissionInvite)
	// /nuke must be registered before /:id
	mission.Delete("/nuke", controllers.NukeMissions)
	mission.Put("/:id/progress", controllers.UpdateMissionProgress)
	mission.Put("/:id", controllers.EditMission)
	mission.Delete("/:id", controllers.DeleteMission)
}
