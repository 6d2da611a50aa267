package repository

import (
	"context"
	"fmt"

	"github.com/fadilmartias/talent-shortlist/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// jobColumns leaves out the embedding, which reads never need.
const jobColumns = "id, user_id, title, content, created_at, updated_at"

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

// SearchSimilarJobs returns the user's job descriptions closest to embedding
// by L2 distance.
func (r *JobRepository) SearchSimilarJobs(ctx context.Context, userID string, embedding pgvector.Vector, topK int) ([]model.SimilarJob, error) {
	var jobs []model.SimilarJob

	err := r.db.WithContext(ctx).Raw(`
        SELECT id, user_id, title, content, created_at, updated_at, embedding <-> ? AS distance
        FROM job_descriptions
        WHERE user_id = ? AND embedding IS NOT NULL
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, userID, embedding, topK).Scan(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("search similar jobs: %w", err)
	}
	return jobs, nil
}

func (r *JobRepository) CreateJob(ctx context.Context, job *model.JobDescription) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (r *JobRepository) FindJobByID(ctx context.Context, userID, id string) (*model.JobDescription, error) {
	var j model.JobDescription
	err := r.db.WithContext(ctx).Select(jobColumns).First(&j, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &j, nil
}

func (r *JobRepository) ListJobsByUser(ctx context.Context, userID string, limit int) ([]model.JobDescription, error) {
	var jobs []model.JobDescription
	err := r.db.WithContext(ctx).
		Select(jobColumns).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id ASC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}
