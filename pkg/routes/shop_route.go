package routes

import (
	"github.com/Mariolucas03/Kairos/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func RegisterShopRoutes(app *fiber.App, protected ...fiber.Handler) {
	shop := app.Group("/shop", protected...)
	shop.Get("/", controllers.GetShopItems)
	shop.Post("/rewards", controllers.CreateReward)
	shop.Post("/buy", controllers.BuyItem)
	shop.Post("/use", controllers.UseItem)
	shop.Post("/exchange", controllers.ExchangeCoins)
}
