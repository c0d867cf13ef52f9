package controllers

import (
	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/gofiber/fiber/v2"
)

// GetDailyLog returns the log for ?date (default today), creating and healing it as needed.
func GetDailyLog(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	dailyLog, err := svc.Daily.GetDailyLog(c.UserContext(), user, c.Query("date"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dailyLog)
}

// GetSpecificDailyLog never creates a log; a day without one answers null.
func GetSpecificDailyLog(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	dailyLog, err := svc.Daily.GetDailyLogByDate(c.UserContext(), userID, c.Query("date"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dailyLog)
}

func UpdateDailyLog(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	req := &models.UpdateDailyLogRequest{}
	if err := parseBody(c, req); err != nil {
		return err
	}

	dailyLog, err := svc.Daily.UpdateWidget(c.UserContext(), user, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dailyLog)
}

func GetWeightHistory(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	points, err := svc.Daily.WeightHistory(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(points)
}
