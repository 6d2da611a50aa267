package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/fadilmartias/talent-shortlist/internal/candidate"
)

type SearchRequest struct {
	Query string `json:"query" validate:"required_without=JobID,max=20000"`
	JobID string `json:"job_id" validate:"omitempty,uuid"`
}

type SearchResponse struct {
	Candidates []candidate.Candidate `json:"candidates"`
	Count      int                   `json:"count"`
	Skipped    int                   `json:"skipped"`
	JobTitle   string                `json:"job_title,omitempty"`
	ScoredAt   time.Time             `json:"scored_at"`
}

type MatchDTO struct {
	ID        uuid.UUID           `json:"id"`
	QueryText string              `json:"query_text"`
	JobID     *uuid.UUID          `json:"job_id,omitempty"`
	JobTitle  string              `json:"job_title,omitempty"`
	Candidate candidate.Candidate `json:"candidate"`
	CreatedAt time.Time           `json:"created_at"`
}

type ListMatchesQuery struct {
	Page     int `query:"page" validate:"omitempty,min=1"`
	PageSize int `query:"page_size" validate:"omitempty,min=1,max=100"`
}
