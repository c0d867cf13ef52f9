package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/Mariolucas03/Kairos/app/queries"
	"github.com/Mariolucas03/Kairos/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

type stubToucher struct {
	user  *models.User
	err   error
	calls int
}

func (s *stubToucher) Touch(_ context.Context, userID uuid.UUID) (*models.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	u := *s.user
	u.ID = userID
	return &u, nil
}

func newApp(t *testing.T, toucher StreakToucher) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/me", JWTProtected(secret), StreakMiddleware(toucher), func(c *fiber.Ctx) error {
		u := c.Locals("user").(*models.User)
		return c.SendString(u.Username)
	})
	return app
}

func bearer(t *testing.T, id uuid.UUID, key string) string {
	t.Helper()
	token, err := utils.GenerateToken(id, key, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(t *testing.T, app *fiber.App, auth string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestJWTProtected(t *testing.T) {
	toucher := &stubToucher{user: &models.User{Username: "ana"}}
	app := newApp(t, toucher)

	t.Run("missing header", func(t *testing.T) {
		code, _ := do(t, app, "")
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		code, _ := do(t, app, "Token abc")
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		code, _ := do(t, app, bearer(t, uuid.New(), "other-secret"))
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})

	t.Run("valid token", func(t *testing.T) {
		code, body := do(t, app, bearer(t, uuid.New(), secret))
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, "ana", body)
	})

	assert.Equal(t, 1, toucher.calls)
}

func TestJWTProtectedWithoutSecret(t *testing.T) {
	app := fiber.New()
	app.Get("/me", JWTProtected(""), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	code, _ := do(t, app, "Bearer abc")
	assert.Equal(t, fiber.StatusInternalServerError, code)
}

func TestStreakMiddlewareErrors(t *testing.T) {
	t.Run("deleted user", func(t *testing.T) {
		app := newApp(t, &stubToucher{err: queries.ErrNotFound})
		code, _ := do(t, app, bearer(t, uuid.New(), secret))
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})

	t.Run("store failure", func(t *testing.T) {
		app := newApp(t, &stubToucher{err: errors.New("connection reset")})
		code, _ := do(t, app, bearer(t, uuid.New(), secret))
		assert.Equal(t, fiber.StatusInternalServerError, code)
	})

	t.Run("no user id", func(t *testing.T) {
		app := fiber.New()
		app.Get("/me", StreakMiddleware(&stubToucher{}), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
		code, _ := do(t, app, "")
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})
}
