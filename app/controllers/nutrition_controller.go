package controllers

import (
	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/gofiber/fiber/v2"
)

func GetNutritionLog(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	nl, err := svc.Nutrition.GetLog(c.UserContext(), userID, c.Query("date"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(nl)
}

func AddMeal(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	req := &models.AddMealRequest{}
	if err := parseBody(c, req); err != nil {
		return err
	}
	nl, err := svc.Nutrition.AddMeal(c.UserContext(), userID, c.Query("date"), req.Name)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(nl)
}

func AddFoodToMeal(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	mealID, err := paramID(c, "mealId")
	if err != nil {
		return err
	}
	req := &models.AddFoodRequest{}
	if err := parseBody(c, req); err != nil {
		return err
	}
	nl, err := svc.Nutrition.AddFood(c.UserContext(), userID, c.Query("date"), mealID, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(nl)
}

func RemoveFoodFromMeal(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	mealID, err := paramID(c, "mealId")
	if err != nil {
		return err
	}
	foodID, err := paramID(c, "foodId")
	if err != nil {
		return err
	}
	nl, err := svc.Nutrition.RemoveFood(c.UserContext(), userID, c.Query("date"), mealID, foodID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(nl)
}

func SearchFoods(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	foods, err := svc.Foods.Search(c.UserContext(), userID, c.Query("q"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(foods)
}

func GetSavedFoods(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	foods, err := svc.Foods.ListSaved(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(foods)
}

func SaveFood(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	req := &models.SaveFoodRequest{}
	if err := parseBody(c, req); err != nil {
		return err
	}
	food, err := svc.Foods.Create(c.UserContext(), userID, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(food)
}

func UpdateFood(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	foodID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	req := &models.SaveFoodRequest{}
	if err := parseBody(c, req); err != nil {
		return err
	}
	food, err := svc.Foods.Update(c.UserContext(), userID, foodID, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(food)
}

func DeleteFood(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	foodID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := svc.Foods.Delete(c.UserContext(), userID, foodID); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Food deleted"})
}

// AnalyzeFoodText estimates macros for a free-text meal description.
func AnalyzeFoodText(c *fiber.Ctx) error {
	req := &models.AnalyzeTextRequest{}
	if err := parseBody(c, req); err != nil {
		return err
	}
	estimate, err := svc.Foods.AnalyzeText(c.UserContext(), req.Text)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(estimate)
}
