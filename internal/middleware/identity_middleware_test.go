package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", RequireUser(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user": UserID(c), "session": SessionID(c), "tenant": TenantID(c)})
	})
	app.Get("/cart", RequireUser(), RequireSession(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestRequireUser(t *testing.T) {
	app := identityApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set(HeaderUserID, "u1")
	req.Header.Set(HeaderTenantID, "t1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireSession(t *testing.T) {
	app := identityApp()

	req := httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set(HeaderUserID, "u1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set(HeaderUserID, "u1")
	req.Header.Set(HeaderSessionID, "s1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRateLimiterKeysByUser(t *testing.T) {
	app := fiber.New()
	app.Get("/", RateLimiter(1, time.Minute), func(c *fiber.Ctx) error { return c.SendString("ok") })

	call := func(user string) int {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(HeaderUserID, user)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, call("a"))
	assert.Equal(t, fiber.StatusTooManyRequests, call("a"))
	assert.Equal(t, fiber.StatusOK, call("b"))
}
