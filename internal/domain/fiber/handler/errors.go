package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/talent-shortlist/internal/repository"
	"github.com/fadilmartias/talent-shortlist/internal/service"
	"github.com/fadilmartias/talent-shortlist/internal/share"
	"github.com/fadilmartias/talent-shortlist/internal/shortlist"
	"github.com/fadilmartias/talent-shortlist/internal/usecase"
	"github.com/fadilmartias/talent-shortlist/internal/util"
	"github.com/fadilmartias/talent-shortlist/internal/validation"
)

// respondError maps domain errors onto HTTP statuses. message is used for
// errors without a more specific mapping.
func respondError(c *fiber.Ctx, err error, message string) error {
	var (
		merr *service.MatchError
		verr *share.ValidationError
	)
	switch {
	case errors.As(err, &merr):
		status := fiber.StatusBadGateway
		if merr.Kind == service.MatchTimeout {
			status = fiber.StatusGatewayTimeout
		}
		retryable := merr.Retryable()
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:      status,
			ErrorCode: "engine_" + merr.Kind.String(),
			Message:   "matching engine request failed",
			Retryable: &retryable,
		}, err)
	case errors.As(err, &verr):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:      fiber.StatusUnprocessableEntity,
			ErrorCode: string(verr.Code),
			Message:   verr.Error(),
		}, err)
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, usecase.ErrNotInResults):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:      fiber.StatusNotFound,
			ErrorCode: "not_found",
			Message:   message,
		}, err)
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, service.ErrEmptyQuery):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:      fiber.StatusBadRequest,
			ErrorCode: "invalid_input",
			Message:   err.Error(),
		}, err)
	case errors.Is(err, shortlist.ErrSessionOwner):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:      fiber.StatusForbidden,
			ErrorCode: "session_forbidden",
			Message:   err.Error(),
		}, err)
	case errors.Is(err, service.ErrSharingDisabled), errors.Is(err, usecase.ErrEmbeddingsDisabled):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:      fiber.StatusServiceUnavailable,
			ErrorCode: "unavailable",
			Message:   err.Error(),
		}, err)
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusInternalServerError,
			Message: message,
		}, err)
	}
}

// bindJSON parses and validates a request body.
func bindJSON(c *fiber.Ctx, v *validator.Validate, out any) error {
	if err := c.BodyParser(out); err != nil {
		return util.NewFormError("request body is not valid JSON", nil)
	}
	if err := v.Struct(out); err != nil {
		return util.NewFormError("request validation failed", validation.FieldErrors(err))
	}
	return nil
}

func respondFormError(c *fiber.Ctx, err error) error {
	var ferr *util.FormError
	if !errors.As(err, &ferr) {
		return respondError(c, err, "invalid request")
	}
	params := util.ErrorResponseFormat{
		Code:      fiber.StatusBadRequest,
		ErrorCode: "validation_failed",
		Message:   ferr.Message,
	}
	if len(ferr.Errors) > 0 {
		params.Details = ferr.Errors
	}
	return util.ErrorResponse(c, params)
}
