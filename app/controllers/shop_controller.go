package controllers

import (
	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/gofiber/fiber/v2"
)

func GetShopItems(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	items, err := svc.Shop.ListItems(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(items)
}

func CreateReward(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	req := &models.CreateRewardRequest{}
	if err := parseBody(c, req); err != nil {
		return err
	}
	item, err := svc.Shop.CreateReward(c.UserContext(), userID, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func BuyItem(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	req := &models.BuyItemRequest{}
	if err := parseBody(c, req); err != nil {
		return err
	}
	user, item, err := svc.Shop.Buy(c.UserContext(), userID, req.ItemID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Purchased " + item.Name, "user": user, "item": item})
}

func UseItem(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	req := &models.BuyItemRequest{}
	if err := parseBody(c, req); err != nil {
		return err
	}
	result, err := svc.Shop.Use(c.UserContext(), userID, req.ItemID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func ExchangeCoins(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	req := &models.ExchangeRequest{}
	if err := parseBody(c, req); err != nil {
		return err
	}
	user, received, err := svc.Shop.Exchange(c.UserContext(), userID, req.AmountGameCoins)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Exchange complete", "user": user, "received": received})
}
