package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/talent-shortlist/internal/middleware"
)

type Handlers struct {
	Search   *SearchHandler
	Cart     *CartHandler
	Jobs     *JobHandler
	Activity *ActivityHandler
}

// RegisterRoutes mounts every API route behind the caller identity check.
func RegisterRoutes(app *fiber.App, h Handlers) {
	api := app.Group("/", middleware.RequireUser())
	h.Search.RegisterRoutes(api)
	h.Cart.RegisterRoutes(api)
	h.Jobs.RegisterRoutes(api)
	h.Activity.RegisterRoutes(api)
}
