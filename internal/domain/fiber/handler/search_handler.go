package handler

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fadilmartias/talent-shortlist/internal/dto"
	"github.com/fadilmartias/talent-shortlist/internal/logger"
	"github.com/fadilmartias/talent-shortlist/internal/middleware"
	"github.com/fadilmartias/talent-shortlist/internal/response"
	"github.com/fadilmartias/talent-shortlist/internal/usecase"
	"github.com/fadilmartias/talent-shortlist/internal/util"
)

const maxUploadSize = 5 * 1024 * 1024

type SearchHandler struct {
	uc       *usecase.SearchUsecase
	validate *validator.Validate
	logger   *zap.Logger
}

func NewSearchHandler(uc *usecase.SearchUsecase, validate *validator.Validate, log *zap.Logger) *SearchHandler {
	return &SearchHandler{uc: uc, validate: validate, logger: logger.OrNop(log)}
}

func (h *SearchHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/search", middleware.RateLimiter(20, time.Minute), h.Search)
	r.Post("/search/upload", middleware.RateLimiter(5, time.Minute), h.Upload)
	r.Get("/matches", h.ListMatches)
	r.Get("/matches/:id", h.GetMatch)
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return respondFormError(c, err)
	}
	return h.runSearch(c, req.Query, req.JobID)
}

// Upload accepts a PDF job description and searches with its text.
func (h *SearchHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("job_description")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:      fiber.StatusBadRequest,
			ErrorCode: "validation_failed",
			Message:   "job_description file is required",
		}, err)
	}
	if file.Size > maxUploadSize {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:      fiber.StatusRequestEntityTooLarge,
			ErrorCode: "file_too_large",
			Message:   "job_description file size is too large (max 5MB)",
		})
	}
	if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".pdf" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:      fiber.StatusUnsupportedMediaType,
			ErrorCode: "unsupported_file",
			Message:   "unsupported job_description file type",
		})
	}

	savePath := filepath.Join(os.TempDir(), "jd-"+uuid.NewString()+".pdf")
	if err := c.SaveFile(file, savePath); err != nil {
		return respondError(c, err, "cannot save job_description file")
	}
	defer os.Remove(savePath)

	text, err := util.ExtractPDFText(savePath, h.logger)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:      fiber.StatusUnprocessableEntity,
			ErrorCode: "unreadable_file",
			Message:   "failed to extract job_description text",
		}, err)
	}

	return h.runSearch(c, text, c.FormValue("job_id"))
}

func (h *SearchHandler) runSearch(c *fiber.Ctx, query, jobID string) error {
	result, err := h.uc.Search(c.UserContext(), usecase.SearchRequest{
		UserID:    middleware.UserID(c),
		SessionID: middleware.SessionID(c),
		TenantID:  middleware.TenantID(c),
		Query:     query,
		JobID:     jobID,
	})
	if err != nil {
		return respondError(c, err, "search failed")
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success search candidates",
		Data: dto.SearchResponse{
			Candidates: result.Candidates,
			Count:      len(result.Candidates),
			Skipped:    result.Skipped,
			JobTitle:   result.JobTitle,
			ScoredAt:   result.ScoredAt,
		},
	})
}

func (h *SearchHandler) ListMatches(c *fiber.Ctx) error {
	var q dto.ListMatchesQuery
	if err := c.QueryParser(&q); err != nil {
		return respondFormError(c, util.NewFormError("invalid query parameters", nil))
	}
	if err := h.validate.Struct(&q); err != nil {
		return respondFormError(c, util.NewFormError("invalid query parameters", nil))
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = 20
	}

	views, total, err := h.uc.ListMatches(c.UserContext(), middleware.UserID(c), q.Page, q.PageSize)
	if err != nil {
		return respondError(c, err, "failed to list matches")
	}

	data := make([]dto.MatchDTO, 0, len(views))
	for _, v := range views {
		data = append(data, matchDTO(v))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get matches",
		Data:       data,
		Pagination: response.NewPagination(q.Page, q.PageSize, total, len(views)),
	})
}

func (h *SearchHandler) GetMatch(c *fiber.Ctx) error {
	view, err := h.uc.GetMatch(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "match not found")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get match",
		Data:    matchDTO(*view),
	})
}

func matchDTO(v usecase.MatchView) dto.MatchDTO {
	return dto.MatchDTO{
		ID:        v.ID,
		QueryText: v.QueryText,
		JobID:     v.JobID,
		JobTitle:  v.JobTitle,
		Candidate: v.Candidate,
		CreatedAt: v.CreatedAt,
	}
}
