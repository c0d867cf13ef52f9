package controllers

import (
	"errors"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/Mariolucas03/Kairos/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var (
	validate = validator.New()

	svc        *services.Services
	cronSecret string
)

// Setup hands the controllers the service layer and the shared secret that guards the cron endpoints.
func Setup(s *services.Services, cronKey string) {
	svc = s
	cronSecret = cronKey
}

// ErrorHandler renders errors that escape a handler, *fiber.Error included, as {"error": msg}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return errorResponse(c, err)
}

// currentUser is the profile the streak middleware loaded for this request.
func currentUser(c *fiber.Ctx) (*models.User, error) {
	u, ok := c.Locals("user").(*models.User)
	if !ok || u == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}
	return u, nil
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals("user_id").(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}
	return id, nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// parseBody decodes and validates the request body into dst.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// errorResponse maps a service error onto a status code. Unexpected errors are logged and answered generically.
func errorResponse(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Msg})
	case errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrAlreadyOwned),
		errors.Is(err, services.ErrNotOwned):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBadCredentials), errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, services.ErrWaitingForPartner):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Waiting for your partner to accept", "waitingForPartner": true})
	case errors.Is(err, services.ErrDuplicateUser):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Mission was changed by someone else, try again"})
	case errors.Is(err, services.ErrAnalyzerUnavailable):
		log.Warnw("food analysis failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Could not analyze"})
	default:
		log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
