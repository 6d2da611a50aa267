package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/talent-shortlist/internal/dto"
	"github.com/fadilmartias/talent-shortlist/internal/middleware"
	"github.com/fadilmartias/talent-shortlist/internal/usecase"
	"github.com/fadilmartias/talent-shortlist/internal/util"
)

type JobHandler struct {
	uc       *usecase.JobUsecase
	validate *validator.Validate
}

func NewJobHandler(uc *usecase.JobUsecase, validate *validator.Validate) *JobHandler {
	return &JobHandler{uc: uc, validate: validate}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/jobs", h.Create)
	r.Get("/jobs", h.List)
	r.Get("/jobs/similar", h.Similar)
	r.Get("/jobs/:id", h.Get)
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateJobRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return respondFormError(c, err)
	}
	job, err := h.uc.CreateJob(c.UserContext(), middleware.UserID(c), req.Title, req.Content)
	if err != nil {
		return respondError(c, err, "failed to create job description")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create job description",
		Data:    dto.NewJobDTO(job),
	})
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	jobs, err := h.uc.ListJobs(c.UserContext(), middleware.UserID(c), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err, "failed to list job descriptions")
	}
	data := make([]dto.JobDTO, 0, len(jobs))
	for i := range jobs {
		item := dto.NewJobDTO(&jobs[i])
		item.Content = ""
		data = append(data, item)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job descriptions",
		Data:    data,
	})
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	job, err := h.uc.GetJob(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "job description not found")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job description",
		Data:    dto.NewJobDTO(job),
	})
}

func (h *JobHandler) Similar(c *fiber.Ctx) error {
	jobs, err := h.uc.SimilarJobs(c.UserContext(), middleware.UserID(c), c.Query("q"), c.QueryInt("top_k"))
	if err != nil {
		return respondError(c, err, "failed to search job descriptions")
	}
	data := make([]dto.JobDTO, 0, len(jobs))
	for i := range jobs {
		data = append(data, dto.NewSimilarJobDTO(&jobs[i]))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success search job descriptions",
		Data:    data,
	})
}
