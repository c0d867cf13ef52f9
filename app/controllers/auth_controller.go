package controllers

import (
	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/gofiber/fiber/v2"
)

func UserSignUp(c *fiber.Ctx) error {
	signUp := &models.SignUp{}
	if err := parseBody(c, signUp); err != nil {
		return err
	}

	session, err := svc.Auth.Register(c.UserContext(), signUp)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered",
		"token":   session.Token,
		"user":    session.User,
	})
}

func UserSignIn(c *fiber.Ctx) error {
	signIn := &models.SignIn{}
	if err := parseBody(c, signIn); err != nil {
		return err
	}

	session, err := svc.Auth.Login(c.UserContext(), signIn)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Sign in successful",
		"token":   session.Token,
		"user":    session.User,
	})
}
