package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// JobDescription is a saved job posting. Embedding is nil when embeddings
// were unavailable at creation time.
type JobDescription struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    string           `gorm:"type:varchar(128);index" json:"user_id"`
	Title     string           `json:"title"`
	Content   string           `gorm:"type:text" json:"content"`
	Embedding *pgvector.Vector `gorm:"type:vector(3072)" json:"-"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (j *JobDescription) TableName() string {
	return "job_descriptions"
}

// SimilarJob is a job description with its vector distance to a query.
type SimilarJob struct {
	JobDescription `gorm:"embedded"`
	Distance       float64 `json:"distance"`
}
