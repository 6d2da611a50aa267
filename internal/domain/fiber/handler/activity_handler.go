package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/talent-shortlist/internal/middleware"
	"github.com/fadilmartias/talent-shortlist/internal/usecase"
	"github.com/fadilmartias/talent-shortlist/internal/util"
)

type ActivityHandler struct {
	uc *usecase.ActivityUsecase
}

func NewActivityHandler(uc *usecase.ActivityUsecase) *ActivityHandler {
	return &ActivityHandler{uc: uc}
}

func (h *ActivityHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/activity/recent", h.Recent)
}

func (h *ActivityHandler) Recent(c *fiber.Ctx) error {
	items, err := h.uc.Recent(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "failed to load recent activity")
	}
	if items == nil {
		items = []usecase.ActivityItem{}
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get recent activity",
		Data:    items,
	})
}
