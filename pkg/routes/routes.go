package routes

import (
	"github.com/Mariolucas03/Kairos/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

// Register mounts every route group. Protected groups authenticate the token and then refresh the streak.
func Register(app *fiber.App, secret string, streaks middleware.StreakToucher) {
	protected := []fiber.Handler{middleware.JWTProtected(secret), middleware.StreakMiddleware(streaks)}

	RegisterCronRoutes(app)
	RegisterUserRoutes(app, protected...)
	RegisterMissionRoutes(app, protected...)
	RegisterDailyRoutes(app, protected...)
	RegisterNutritionRoutes(app, protected...)
	RegisterShopRoutes(app, protected...)
}
