package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/fadilmartias/talent-shortlist/internal/model"
)

type CreateJobRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content" validate:"required,max=50000"`
}

type JobDTO struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content,omitempty"`
	HasEmbedding bool      `json:"has_embedding"`
	Distance     *float64  `json:"distance,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewJobDTO(j *model.JobDescription) JobDTO {
	return JobDTO{
		ID:           j.ID,
		Title:        j.Title,
		Content:      j.Content,
		HasEmbedding: j.Embedding != nil,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}

func NewSimilarJobDTO(j *model.SimilarJob) JobDTO {
	out := NewJobDTO(&j.JobDescription)
	out.HasEmbedding = true
	d := j.Distance
	out.Distance = &d
	return out
}
