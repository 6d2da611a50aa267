package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/talent-shortlist/internal/candidate"
	"github.com/fadilmartias/talent-shortlist/internal/dto"
	"github.com/fadilmartias/talent-shortlist/internal/middleware"
	"github.com/fadilmartias/talent-shortlist/internal/share"
	"github.com/fadilmartias/talent-shortlist/internal/usecase"
	"github.com/fadilmartias/talent-shortlist/internal/util"
)

type CartHandler struct {
	uc       *usecase.ShortlistUsecase
	validate *validator.Validate
}

func NewCartHandler(uc *usecase.ShortlistUsecase, validate *validator.Validate) *CartHandler {
	return &CartHandler{uc: uc, validate: validate}
}

func (h *CartHandler) RegisterRoutes(r fiber.Router) {
	cart := r.Group("/cart", middleware.RequireSession())
	cart.Get("/", h.List)
	cart.Post("/items", h.Add)
	cart.Delete("/items/:id", h.Remove)
	cart.Delete("/", h.Clear)
	cart.Post("/export", h.Export)
	cart.Post("/share", h.Share)

	r.Delete("/session", middleware.RequireSession(), h.EndSession)
}

func (h *CartHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.Cart(middleware.UserID(c), middleware.SessionID(c))
	if err != nil {
		return respondError(c, err, "failed to load cart")
	}
	return h.cartResponse(c, fiber.StatusOK, "Success get cart", items)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req dto.AddCartItemRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return respondFormError(c, err)
	}

	userID, sessionID := middleware.UserID(c), middleware.SessionID(c)
	_, added, err := h.uc.AddItem(c.UserContext(), userID, sessionID, req.CandidateID, req.MatchID)
	if err != nil {
		return respondError(c, err, "candidate not found")
	}

	items, err := h.uc.Cart(userID, sessionID)
	if err != nil {
		return respondError(c, err, "failed to load cart")
	}
	status, message := fiber.StatusCreated, "Candidate added to cart"
	if !added {
		status, message = fiber.StatusOK, "Candidate already in cart"
	}
	return h.cartResponse(c, status, message, items)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	userID, sessionID := middleware.UserID(c), middleware.SessionID(c)
	removed, err := h.uc.RemoveItem(userID, sessionID, c.Params("id"))
	if err != nil {
		return respondError(c, err, "failed to update cart")
	}
	items, err := h.uc.Cart(userID, sessionID)
	if err != nil {
		return respondError(c, err, "failed to load cart")
	}
	message := "Candidate removed from cart"
	if !removed {
		message = "Candidate was not in cart"
	}
	return h.cartResponse(c, fiber.StatusOK, message, items)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(middleware.UserID(c), middleware.SessionID(c)); err != nil {
		return respondError(c, err, "failed to clear cart")
	}
	return h.cartResponse(c, fiber.StatusOK, "Cart cleared", nil)
}

func (h *CartHandler) Export(c *fiber.Ctx) error {
	req, err := h.exportRequest(c)
	if err != nil {
		return respondFormError(c, err)
	}
	exp, err := h.uc.Export(middleware.UserID(c), middleware.SessionID(c), req)
	if err != nil {
		return respondError(c, err, "failed to build export")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success build export",
		Data:    exp,
	})
}

func (h *CartHandler) Share(c *fiber.Ctx) error {
	req, err := h.exportRequest(c)
	if err != nil {
		return respondFormError(c, err)
	}
	exp, id, err := h.uc.Share(c.UserContext(), middleware.UserID(c), middleware.SessionID(c), middleware.TenantID(c), req)
	if err != nil {
		return respondError(c, err, "failed to share shortlist")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Shortlist queued for delivery",
		Data:    dto.ShareResponse{MessageID: id, Export: exp},
	})
}

func (h *CartHandler) EndSession(c *fiber.Ctx) error {
	ended, err := h.uc.EndSession(middleware.UserID(c), middleware.SessionID(c))
	if err != nil {
		return respondError(c, err, "failed to end session")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Session ended",
		Data:    fiber.Map{"ended": ended},
	})
}

func (h *CartHandler) exportRequest(c *fiber.Ctx) (usecase.ExportRequest, error) {
	var req dto.ExportRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return usecase.ExportRequest{}, err
	}

	policy := share.Policy{BlindContactInfo: req.BlindContactInfo}
	for _, name := range req.BlindFields {
		f, err := share.ParseField(name)
		if err != nil {
			return usecase.ExportRequest{}, util.NewFormError("request validation failed", map[string]string{"blind_fields": "blind_field"})
		}
		policy.BlindFields = append(policy.BlindFields, f)
	}
	return usecase.ExportRequest{
		RecipientEmail: req.RecipientEmail,
		Subject:        req.Subject,
		Message:        req.Message,
		Policy:         policy,
	}, nil
}

func (h *CartHandler) cartResponse(c *fiber.Ctx, status int, message string, items []candidate.Candidate) error {
	if items == nil {
		items = []candidate.Candidate{}
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    status,
		Message: message,
		Data:    dto.CartResponse{Items: items, Count: len(items)},
	})
}
