package routes

import (
	"github.com/Mariolucas03/Kairos/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func RegisterNutritionRoutes(app *fiber.App, protected ...fiber.Handler) {
	nutrition := app.Group("/nutrition", protected...)
	nutrition.Get("/log", controllers.GetNutritionLog)
	nutrition.Post("/log/meals", controllers.AddMeal)
	nutrition.Post("/log/meals/:mealId/foods", controllers.AddFoodToMeal)
	nutrition.Delete("/log/meals/:mealId/foods/:foodId", controllers.RemoveFoodFromMeal)
	nutrition.Post("/analyze-text", controllers.AnalyzeFoodText)

	nutrition.Get("/foods/search", controllers.SearchFoods)
	nutrition.Get("/foods", controllers.GetSavedFoods)
	nutrition.Post("/foods", controllers.SaveFood)
	nutrition.Put("/foods/:id", controllers.UpdateFood)
	nutrition.Delete("/foods/:id", controllers.DeleteFood)
}
