package routes

import (
	"github.com/Mariolucas03/Kairos/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func RegisterUserRoutes(app *fiber.App, protected ...fiber.Handler) {
	// Public routes
	auth := app.Group("/auth")
	auth.Post("/register", controllers.UserSignUp)
	auth.Post("/login", controllers.UserSignIn)

	user := app.Group("/user", protected...)
	user.Get("/profile", controllers.UserProfile)
}
